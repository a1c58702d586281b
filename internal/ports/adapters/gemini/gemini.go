package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultModel        = "gemini-2.5-pro"
	DefaultPollInterval = 2 * time.Second

	deleteTimeout = 30 * time.Second
	promptPrefix  = "Please analyze this video and "
)

var ErrProcessingFailed = errors.New("video processing failed")

type Options struct {
	APIKey       string
	Model        string
	BaseURL      string
	PollInterval time.Duration
	Logger       *zap.Logger
	// Progress receives one dot per status poll. Nil disables it.
	Progress io.Writer
}

type filesAPI interface {
	UploadFromPath(ctx context.Context, path string, config *genai.UploadFileConfig) (*genai.File, error)
	Get(ctx context.Context, name string, config *genai.GetFileConfig) (*genai.File, error)
	Delete(ctx context.Context, name string, config *genai.DeleteFileConfig) (*genai.DeleteFileResponse, error)
}

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Adapter struct {
	key      string
	model    string
	interval time.Duration
	log      *zap.Logger
	progress io.Writer

	files  filesAPI
	models modelsAPI
}

func New(ctx context.Context, opts Options) (*Adapter, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := normalizeBaseURL(opts.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", scrub(err, opts.APIKey))
	}
	return newWithAPIs(opts, client.Files, client.Models), nil
}

func newWithAPIs(opts Options, files filesAPI, models modelsAPI) *Adapter {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{
		key:      opts.APIKey,
		model:    model,
		interval: interval,
		log:      log,
		progress: opts.Progress,
		files:    files,
		models:   models,
	}
}

// Analyze uploads videoPath, waits for the service to finish processing it,
// and asks the model about it. The uploaded file is deleted before returning,
// whatever the outcome.
func (a *Adapter) Analyze(ctx context.Context, videoPath, prompt string) (string, error) {
	a.log.Info("uploading video", zap.String("path", videoPath))
	f, err := a.files.UploadFromPath(ctx, videoPath, &genai.UploadFileConfig{
		MIMEType:    DetectMIME(videoPath),
		DisplayName: displayName(videoPath),
	})
	if err != nil {
		return "", fmt.Errorf("gemini upload: %w", scrub(err, a.key))
	}
	defer a.deleteRemote(ctx, f.Name)

	a.log.Info("processing video", zap.String("file", f.Name))
	f, err = a.waitProcessed(ctx, f)
	if err != nil {
		return "", err
	}
	a.log.Info("video processed", zap.String("file", f.Name))

	a.log.Info("analyzing video content", zap.String("model", a.model))
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(promptPrefix + prompt),
			genai.NewPartFromURI(f.URI, f.MIMEType),
		}, genai.RoleUser),
	}
	resp, err := a.models.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		SafetySettings: SafetyOff(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate (model=%s): %w", a.model, scrub(err, a.key))
	}
	if resp == nil {
		return "", fmt.Errorf("gemini generate (model=%s): empty response", a.model)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini generate (model=%s): response has no text", a.model)
	}
	return text, nil
}

func (a *Adapter) waitProcessed(ctx context.Context, f *genai.File) (*genai.File, error) {
	polled := false
	defer func() {
		if polled && a.progress != nil {
			fmt.Fprintln(a.progress)
		}
	}()

	for f.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.interval):
		}
		polled = true
		if a.progress != nil {
			fmt.Fprint(a.progress, ".")
		}

		name := f.Name
		var err error
		f, err = a.files.Get(ctx, name, nil)
		if err != nil {
			return nil, fmt.Errorf("gemini get file %s: %w", name, scrub(err, a.key))
		}
		a.log.Debug("file state", zap.String("file", name), zap.String("state", string(f.State)))
	}

	if f.State == genai.FileStateFailed {
		msg := string(f.State)
		if f.Error != nil && f.Error.Message != "" {
			msg = f.Error.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrProcessingFailed, msg)
	}
	return f, nil
}

// deleteRemote is best-effort. It gets its own deadline so that a cancelled
// run still cleans up.
func (a *Adapter) deleteRemote(ctx context.Context, name string) {
	if name == "" {
		return
	}
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deleteTimeout)
	defer cancel()
	if _, err := a.files.Delete(dctx, name, nil); err != nil {
		a.log.Warn("delete uploaded file", zap.String("file", name), zap.Error(scrub(err, a.key)))
		return
	}
	a.log.Debug("deleted uploaded file", zap.String("file", name))
}

// SafetyOff disables blocking for every adjustable harm category.
func SafetyOff() []*genai.SafetySetting {
	cats := []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryHarassment,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	out := make([]*genai.SafetySetting, 0, len(cats))
	for _, c := range cats {
		out = append(out, &genai.SafetySetting{Category: c, Threshold: genai.HarmBlockThresholdBlockNone})
	}
	return out
}

var videoMIME = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/mov",
	".avi":  "video/avi",
	".mkv":  "video/x-matroska",
	".wmv":  "video/wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".3gp":  "video/3gpp",
	".mpg":  "video/mpg",
	".mpeg": "video/mpeg",
}

// DetectMIME maps a file extension to the MIME type sent on upload, falling
// back to video/mp4.
func DetectMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if m, ok := videoMIME[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		return strings.TrimSpace(strings.SplitN(m, ";", 2)[0])
	}
	return "video/mp4"
}

func displayName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return stem + "-" + uuid.NewString()[:8]
}
