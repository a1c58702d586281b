package gemini

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"
)

type fakeFiles struct {
	uploaded  *genai.File
	uploadErr error
	states    []genai.FileState
	getErr    error
	deleteErr error

	uploadCfg *genai.UploadFileConfig
	gets      int
	deleted   []string
}

func (f *fakeFiles) UploadFromPath(_ context.Context, _ string, cfg *genai.UploadFileConfig) (*genai.File, error) {
	f.uploadCfg = cfg
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	cp := *f.uploaded
	return &cp, nil
}

func (f *fakeFiles) Get(_ context.Context, name string, _ *genai.GetFileConfig) (*genai.File, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	st := f.states[min(f.gets, len(f.states)-1)]
	f.gets++
	cp := *f.uploaded
	cp.Name = name
	cp.State = st
	return &cp, nil
}

func (f *fakeFiles) Delete(ctx context.Context, name string, _ *genai.DeleteFileConfig) (*genai.DeleteFileResponse, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	f.deleted = append(f.deleted, name)
	return &genai.DeleteFileResponse{}, f.deleteErr
}

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	model    string
	contents []*genai.Content
	cfg      *genai.GenerateContentConfig
}

func (m *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.model, m.contents, m.cfg = model, contents, cfg
	return m.resp, m.err
}

func textResponse(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: s}}}},
		},
	}
}

func processingFile() *genai.File {
	return &genai.File{
		Name:     "files/abc123",
		URI:      "https://generativelanguage.googleapis.com/v1beta/files/abc123",
		MIMEType: "video/mp4",
		State:    genai.FileStateProcessing,
	}
}

func newTestAdapter(files *fakeFiles, models *fakeModels, progress *bytes.Buffer) *Adapter {
	opts := Options{APIKey: "secret-key", Model: "gemini-test", PollInterval: time.Millisecond}
	if progress != nil {
		opts.Progress = progress
	}
	return newWithAPIs(opts, files, models)
}

func TestAnalyze_PollsUntilActiveThenGenerates(t *testing.T) {
	files := &fakeFiles{
		uploaded: processingFile(),
		states:   []genai.FileState{genai.FileStateProcessing, genai.FileStateProcessing, genai.FileStateActive},
	}
	models := &fakeModels{resp: textResponse("  A cat plays piano.  ")}
	var progress bytes.Buffer

	got, err := newTestAdapter(files, models, &progress).Analyze(context.Background(), "/tmp/clip.mov", "describe what happens")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got != "A cat plays piano." {
		t.Fatalf("unexpected text: %q", got)
	}
	if files.gets != 3 {
		t.Fatalf("expected 3 status polls, got %d", files.gets)
	}
	if progress.String() != "...\n" {
		t.Fatalf("unexpected progress output: %q", progress.String())
	}
	if files.uploadCfg.MIMEType != "video/mov" {
		t.Fatalf("unexpected upload MIME type: %q", files.uploadCfg.MIMEType)
	}
	if !strings.HasPrefix(files.uploadCfg.DisplayName, "clip-") {
		t.Fatalf("unexpected display name: %q", files.uploadCfg.DisplayName)
	}

	if models.model != "gemini-test" {
		t.Fatalf("unexpected model: %q", models.model)
	}
	if len(models.contents) != 1 || len(models.contents[0].Parts) != 2 {
		t.Fatalf("expected one content with two parts, got %+v", models.contents)
	}
	parts := models.contents[0].Parts
	if parts[0].Text != "Please analyze this video and describe what happens" {
		t.Fatalf("unexpected prompt text: %q", parts[0].Text)
	}
	if parts[1].FileData == nil || parts[1].FileData.FileURI != processingFile().URI {
		t.Fatalf("expected file reference part, got %+v", parts[1])
	}

	if len(models.cfg.SafetySettings) != 4 {
		t.Fatalf("expected 4 safety settings, got %d", len(models.cfg.SafetySettings))
	}
	for _, s := range models.cfg.SafetySettings {
		if s.Threshold != genai.HarmBlockThresholdBlockNone {
			t.Fatalf("expected BLOCK_NONE for %s, got %s", s.Category, s.Threshold)
		}
	}

	if len(files.deleted) != 1 || files.deleted[0] != "files/abc123" {
		t.Fatalf("expected uploaded file to be deleted, got %v", files.deleted)
	}
}

func TestAnalyze_ActiveOnUploadSkipsPolling(t *testing.T) {
	f := processingFile()
	f.State = genai.FileStateActive
	files := &fakeFiles{uploaded: f}
	var progress bytes.Buffer

	if _, err := newTestAdapter(files, &fakeModels{resp: textResponse("ok")}, &progress).Analyze(context.Background(), "a.mp4", "x"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if files.gets != 0 {
		t.Fatalf("expected no polls, got %d", files.gets)
	}
	if progress.Len() != 0 {
		t.Fatalf("expected no progress output, got %q", progress.String())
	}
}

func TestAnalyze_ProcessingFailed(t *testing.T) {
	files := &fakeFiles{
		uploaded: processingFile(),
		states:   []genai.FileState{genai.FileStateFailed},
	}
	models := &fakeModels{resp: textResponse("unused")}

	_, err := newTestAdapter(files, models, nil).Analyze(context.Background(), "a.mp4", "x")
	if !errors.Is(err, ErrProcessingFailed) {
		t.Fatalf("expected ErrProcessingFailed, got %v", err)
	}
	if models.contents != nil {
		t.Fatalf("generate must not run after a failed upload")
	}
	if len(files.deleted) != 1 {
		t.Fatalf("expected cleanup after failure, got %v", files.deleted)
	}
}

func TestAnalyze_GenerateErrorIsRedactedAndCleansUp(t *testing.T) {
	f := processingFile()
	f.State = genai.FileStateActive
	files := &fakeFiles{uploaded: f}
	cause := errors.New("Error 403, request https://x/v1beta/models?key=secret-key denied")
	models := &fakeModels{err: cause}

	_, err := newTestAdapter(files, models, nil).Analyze(context.Background(), "a.mp4", "x")
	if err == nil {
		t.Fatalf("expected error")
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if len(files.deleted) != 1 {
		t.Fatalf("expected cleanup after generate failure, got %v", files.deleted)
	}
}

func TestAnalyze_EmptyTextIsError(t *testing.T) {
	f := processingFile()
	f.State = genai.FileStateActive
	files := &fakeFiles{uploaded: f}

	_, err := newTestAdapter(files, &fakeModels{resp: &genai.GenerateContentResponse{}}, nil).Analyze(context.Background(), "a.mp4", "x")
	if err == nil || !strings.Contains(err.Error(), "no text") {
		t.Fatalf("expected no-text error, got %v", err)
	}
}

func TestAnalyze_UploadErrorSkipsDelete(t *testing.T) {
	files := &fakeFiles{uploadErr: errors.New("boom")}
	_, err := newTestAdapter(files, &fakeModels{}, nil).Analyze(context.Background(), "a.mp4", "x")
	if err == nil || !strings.Contains(err.Error(), "gemini upload") {
		t.Fatalf("expected upload error, got %v", err)
	}
	if len(files.deleted) != 0 {
		t.Fatalf("nothing was uploaded, nothing to delete: %v", files.deleted)
	}
}

func TestAnalyze_DeleteErrorDoesNotFailRun(t *testing.T) {
	f := processingFile()
	f.State = genai.FileStateActive
	files := &fakeFiles{uploaded: f, deleteErr: errors.New("gone")}

	got, err := newTestAdapter(files, &fakeModels{resp: textResponse("fine")}, nil).Analyze(context.Background(), "a.mp4", "x")
	if err != nil || got != "fine" {
		t.Fatalf("expected success despite delete error, got %q, %v", got, err)
	}
}

func TestAnalyze_CancelledWhilePollingStillDeletes(t *testing.T) {
	files := &fakeFiles{
		uploaded: processingFile(),
		states:   []genai.FileState{genai.FileStateProcessing},
	}
	a := newTestAdapter(files, &fakeModels{}, nil)
	a.interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Analyze(ctx, "a.mp4", "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(files.deleted) != 1 {
		t.Fatalf("expected cleanup on cancellation, got %v", files.deleted)
	}
}

func TestNewWithAPIs_Defaults(t *testing.T) {
	a := newWithAPIs(Options{APIKey: "k"}, &fakeFiles{}, &fakeModels{})
	if a.model != DefaultModel || a.interval != DefaultPollInterval || a.log == nil {
		t.Fatalf("unexpected defaults: model=%q interval=%s", a.model, a.interval)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(context.Background(), Options{APIKey: "  "}); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestDetectMIME(t *testing.T) {
	tests := map[string]string{
		"a.MP4":   "video/mp4",
		"a.webm":  "video/webm",
		"a.mpeg":  "video/mpeg",
		"a.3gp":   "video/3gpp",
		"a":       "video/mp4",
		"a.weird": "video/mp4",
	}
	for in, want := range tests {
		if got := DetectMIME(in); got != want {
			t.Fatalf("DetectMIME(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedactSecrets(t *testing.T) {
	apiKey := "AIzaSy-super-secret"
	in := `status 400; x-goog-api-key: AIzaSy-super-secret; url=https://h/v1beta/files?key=AIzaSy-super-secret&alt=json; Authorization: Bearer abc.def`
	got := redactSecrets(in, apiKey)

	if strings.Contains(got, apiKey) {
		t.Fatalf("expected API key to be redacted, got: %q", got)
	}
	if !strings.Contains(got, "x-goog-api-key: [REDACTED]") {
		t.Fatalf("expected api key header to be redacted, got: %q", got)
	}
	if !strings.Contains(got, "Authorization: [REDACTED]") {
		t.Fatalf("expected authorization header to be redacted, got: %q", got)
	}
}
