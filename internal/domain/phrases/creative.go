package phrases

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/forPelevin/vidscope/internal/types"
)

const (
	ThemeCTA        = "cta"
	ThemeContextual = "contextual"

	StyleProfessional  = "professional"
	StyleCasual        = "casual"
	StyleFunny         = "funny"
	StyleInspirational = "inspirational"
	StyleTechnical     = "technical"

	SceneProductDemo = "product_demo"
	SceneLifestyle   = "lifestyle"
	SceneTutorial    = "tutorial"
	SceneTestimonial = "testimonial"
)

// scene -> style -> lines
type templateSet map[string]map[string][]string

var ctaTemplates = templateSet{
	SceneProductDemo: {
		StyleProfessional: {"Get Started Today", "Try It Free", "Download Now", "Learn More", "Get Your Copy", "Start Free Trial", "Buy Now", "Order Today"},
		StyleCasual:       {"Give It a Try", "Check It Out", "Get Started", "Join Us", "Try It Out", "See How", "Take a Look", "Get Going"},
		StyleFunny:        {"Don't Wait", "Jump In", "Go For It", "Why Not?", "Let's Do This", "Ready? Go!", "Make It Happen", "Just Do It"},
	},
	SceneLifestyle: {
		StyleProfessional: {"Join Our Community", "Start Your Journey", "Transform Today", "Begin Now", "Take Action", "Get Started", "Change Your Life", "Make It Happen"},
		StyleCasual:       {"Come Along", "Join the Fun", "Be Part of It", "Get Involved", "Come On In", "Jump On Board", "Be There", "Don't Miss Out"},
		StyleFunny:        {"Don't Be Left Out", "Join the Party", "Come Play", "Get In On This", "Be Cool Like Us", "Don't Be Square", "Come On Over", "Be Awesome"},
	},
	SceneTutorial: {
		StyleProfessional: {"Learn More", "Master This", "Get Skilled", "Become Expert", "Study Now", "Improve Skills", "Level Up", "Advance Today"},
		StyleCasual:       {"Learn This", "Try It Yourself", "Give It a Go", "Practice Now", "Have a Go", "Test It Out", "See If You Can", "Challenge Yourself"},
		StyleFunny:        {"Be a Pro", "Show Off", "Impress Friends", "Be Amazing", "Look Smart", "Be Cool", "Stand Out", "Be Awesome"},
	},
	SceneTestimonial: {
		StyleProfessional: {"Join Success Stories", "Be Like Them", "Start Your Success", "Achieve Results", "Get Results", "See Success", "Win Like Them", "Succeed Today"},
		StyleCasual:       {"Be Like Them", "Join Winners", "Get Results Too", "Be Successful", "Win Like This", "Join Success", "Be a Winner", "Get There"},
		StyleFunny:        {"Be a Winner", "Join the Winners", "Be Like Them", "Win Too", "Be Successful", "Join Success", "Be Awesome", "Win Big"},
	},
}

var contextualTemplates = templateSet{
	SceneProductDemo: {
		StyleProfessional: {"See how it works in real-time", "Experience the difference", "Watch the magic happen", "See the results instantly", "Experience seamless performance", "Watch innovation in action", "See quality in motion", "Experience excellence"},
		StyleCasual:       {"Pretty cool, right?", "See how easy that was?", "That's how it's done", "Pretty neat, huh?", "See what I mean?", "That's the magic", "Pretty awesome stuff", "See how smooth?"},
		StyleFunny:        {"Boom! Just like that", "Easy peasy, lemon squeezy", "That's how we roll", "Pretty slick, right?", "That's what I'm talking about", "Boom! Problem solved", "That's how you do it", "Pretty sweet, huh?"},
	},
	SceneLifestyle: {
		StyleProfessional: {"This is what success looks like", "See the transformation", "Experience the change", "This is your future", "See what's possible", "This is the lifestyle", "Experience the difference", "See the results"},
		StyleCasual:       {"This is the life", "Pretty amazing, right?", "This is living", "See what I mean?", "This is awesome", "Pretty cool lifestyle", "This is it", "See the difference?"},
		StyleFunny:        {"Living the dream", "This is how it's done", "Pretty sweet life", "This is living", "Living large", "This is awesome", "Pretty cool, right?", "This is the way"},
	},
	SceneTutorial: {
		StyleProfessional: {"Follow these simple steps", "Watch and learn", "Master this technique", "Learn the process", "See the method", "Follow the steps", "Learn the skill", "Master the art"},
		StyleCasual:       {"Here's how you do it", "Watch this closely", "Pretty simple, right?", "See how easy?", "That's how it works", "Pretty straightforward", "See the technique?", "That's the trick"},
		StyleFunny:        {"Easy as pie", "Piece of cake", "Nothing to it", "Child's play", "No big deal", "Super simple", "Easy peasy", "No sweat"},
	},
	SceneTestimonial: {
		StyleProfessional: {"Real results from real people", "See what customers say", "Hear their success story", "This is their experience", "See the transformation", "Real customer feedback", "Hear their journey", "See their results"},
		StyleCasual:       {"Pretty amazing story", "See what they say", "Pretty cool results", "That's their experience", "Pretty awesome feedback", "See their story", "Pretty great results", "That's what they say"},
		StyleFunny:        {"Pretty awesome, right?", "That's what they say", "Pretty cool story", "That's their experience", "Pretty amazing results", "That's the truth", "Pretty sweet feedback", "That's real talk"},
	},
}

// Normalize fills defaults and rejects unknown names. An empty scene stays
// empty; Creative picks one at random.
func Normalize(req types.CreativeRequest) (types.CreativeRequest, error) {
	req.Theme = strings.ToLower(strings.TrimSpace(req.Theme))
	req.Style = strings.ToLower(strings.TrimSpace(req.Style))
	req.Scene = strings.ToLower(strings.TrimSpace(req.Scene))
	req.Context = strings.TrimSpace(req.Context)

	if req.Theme == "" {
		req.Theme = ThemeCTA
	}
	if req.Style == "" {
		req.Style = StyleProfessional
	}
	if _, ok := themeDescriptions[req.Theme]; !ok {
		return req, fmt.Errorf("unknown theme %q (want one of %s)", req.Theme, keys(themeDescriptions))
	}
	if _, ok := styleDescriptions[req.Style]; !ok {
		return req, fmt.Errorf("unknown style %q (want one of %s)", req.Style, keys(styleDescriptions))
	}
	if req.Scene != "" {
		if _, ok := sceneDescriptions[req.Scene]; !ok {
			return req, fmt.Errorf("unknown scene %q (want one of %s)", req.Scene, keys(sceneDescriptions))
		}
	}
	if len(req.Context) > MaxContextLen {
		return req, fmt.Errorf("context is longer than %d characters", MaxContextLen)
	}
	return req, nil
}

// MaxContextLen bounds the free-form context hint.
const MaxContextLen = 500

// Creative returns a templated line for the request. The request is expected
// to have passed Normalize.
func Creative(r *rand.Rand, req types.CreativeRequest) string {
	scene := req.Scene
	if scene == "" {
		scene = pick(r, sceneOrder)
	}

	set := ctaTemplates
	if req.Theme == ThemeContextual {
		set = contextualTemplates
	}
	byStyle, ok := set[scene]
	if !ok {
		byStyle = set[SceneProductDemo]
	}
	lines, ok := byStyle[req.Style]
	if !ok {
		lines = byStyle[StyleProfessional]
	}

	line := pick(r, lines)
	if req.Context == "" {
		return line
	}
	if req.Theme == ThemeContextual {
		return enhanceContextual(line, req.Context)
	}
	return enhanceCTA(line, req.Context)
}

func enhanceCTA(cta, context string) string {
	words := contextWords(context)
	if _, ok := words["free"]; ok {
		tokens := strings.Split(cta, " ")
		for i, tok := range tokens {
			switch tok {
			case "Get", "Try", "Start":
				tokens[i] = tok + " Free"
			}
		}
		return strings.Join(tokens, " ")
	}
	if _, ok := words["now"]; ok {
		return cta + " Now"
	}
	return cta
}

func enhanceContextual(line, context string) string {
	if _, ok := contextWords(context)["amazing"]; ok {
		return strings.NewReplacer("Pretty", "Amazing", "pretty", "amazing").Replace(line)
	}
	return line
}

// contextWords splits on single spaces only, so "free!" does not match "free".
func contextWords(context string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Split(strings.ToLower(context), " ") {
		out[w] = struct{}{}
	}
	return out
}

func keys(m map[string]string) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
