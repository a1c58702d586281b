package types

type Mode string

const (
	ModeAnalysis Mode = "analysis"
	ModeRandom   Mode = "random"
	ModeCreative Mode = "creative"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeAnalysis, ModeRandom, ModeCreative:
		return Mode(s), true
	}
	return "", false
}

// TrimSpec is a validated trim window. Start < End always holds.
type TrimSpec struct {
	Start float64
	End   float64
	Fast  bool
}

func (t TrimSpec) Duration() float64 { return t.End - t.Start }

type CreativeRequest struct {
	Theme   string
	Style   string
	Scene   string
	Context string
}

type Result struct {
	Mode        Mode
	Text        string
	TrimmedPath string
}
