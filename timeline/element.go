// ABOUTME: Defines timeline elements (media clips, audio, text overlays) and partial updates
// ABOUTME: Updates are applied as shallow merges that return new elements and never mutate the original

package timeline

import "maps"

// ElementType is the variant tag of an element
type ElementType string

// Element variants
const (
	ElementMedia ElementType = "media"
	ElementAudio ElementType = "audio"
	ElementText  ElementType = "text"
)

// Position is an offset from the canvas center
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Transform describes how an element is placed on the canvas
type Transform struct {
	Scale    float64  `json:"scale"    yaml:"scale"`
	Position Position `json:"position" yaml:"position"`
	Rotate   float64  `json:"rotate"   yaml:"rotate"`
}

// TextProps holds the rendering fields only text elements carry
type TextProps struct {
	Content         string            `json:"content"                  yaml:"content"`
	FontSize        float64           `json:"fontSize"                 yaml:"fontSize"`
	FontFamily      string            `json:"fontFamily"               yaml:"fontFamily"`
	Color           string            `json:"color"                    yaml:"color"`
	BackgroundColor string            `json:"backgroundColor"          yaml:"backgroundColor"`
	TextAlign       string            `json:"textAlign"                yaml:"textAlign"`
	FontWeight      string            `json:"fontWeight"               yaml:"fontWeight"`
	FontStyle       string            `json:"fontStyle"                yaml:"fontStyle"`
	TextDecoration  string            `json:"textDecoration"           yaml:"textDecoration"`
	Metadata        map[string]string `json:"metadata,omitempty"       yaml:"metadata,omitempty"`
}

// Element is a timed item on a track.
// Text is non-nil exactly when Type is ElementText.
type Element struct {
	ID        string      `json:"id"                  yaml:"id"`
	Type      ElementType `json:"type"                yaml:"type"`
	Name      string      `json:"name"                yaml:"name"`
	MediaPath string      `json:"mediaPath,omitempty" yaml:"mediaPath,omitempty"`
	StartTime float64     `json:"startTime"           yaml:"startTime"`
	Duration  float64     `json:"duration"            yaml:"duration"`
	TrimStart float64     `json:"trimStart"           yaml:"trimStart"`
	TrimEnd   float64     `json:"trimEnd"             yaml:"trimEnd"`
	Transform Transform   `json:"transform"           yaml:"transform"`
	Opacity   float64     `json:"opacity"             yaml:"opacity"`
	Text      *TextProps  `json:"text,omitempty"      yaml:"text,omitempty"`
}

// IsText reports whether the element is a text overlay
func (e *Element) IsText() bool {
	return e.Type == ElementText
}

// EndTime returns the time the element stops playing on the timeline
func (e *Element) EndTime() float64 {
	return e.StartTime + e.Duration - e.TrimStart - e.TrimEnd
}

// DefaultTextProps returns the styling new text overlays start with
func DefaultTextProps(content string) *TextProps {
	return &TextProps{
		Content:         content,
		FontSize:        48,
		FontFamily:      "Arial",
		Color:           "#ffffff",
		BackgroundColor: "transparent",
		TextAlign:       "center",
		FontWeight:      "normal",
		FontStyle:       "normal",
		TextDecoration:  "none",
	}
}

// DefaultTransform is the identity placement
func DefaultTransform() Transform {
	return Transform{Scale: 1}
}

// ElementUpdate is a partial payload over the fields every element shares.
// Nil fields are left untouched.
type ElementUpdate struct {
	Name      *string
	StartTime *float64
	Duration  *float64
	TrimStart *float64
	TrimEnd   *float64
	Transform *Transform
	Opacity   *float64
}

// Apply returns a shallow copy of e with the non-nil fields of u merged in
func (u ElementUpdate) Apply(e *Element) *Element {
	out := *e

	if u.Name != nil {
		out.Name = *u.Name
	}

	if u.StartTime != nil {
		out.StartTime = *u.StartTime
	}

	if u.Duration != nil {
		out.Duration = *u.Duration
	}

	if u.TrimStart != nil {
		out.TrimStart = *u.TrimStart
	}

	if u.TrimEnd != nil {
		out.TrimEnd = *u.TrimEnd
	}

	if u.Transform != nil {
		out.Transform = *u.Transform
	}

	if u.Opacity != nil {
		out.Opacity = *u.Opacity
	}

	return &out
}

// Merge combines two payloads; fields set in next win
func (u ElementUpdate) Merge(next ElementUpdate) ElementUpdate {
	out := u
	if next.Name != nil {
		out.Name = next.Name
	}
	if next.StartTime != nil {
		out.StartTime = next.StartTime
	}
	if next.Duration != nil {
		out.Duration = next.Duration
	}
	if next.TrimStart != nil {
		out.TrimStart = next.TrimStart
	}
	if next.TrimEnd != nil {
		out.TrimEnd = next.TrimEnd
	}
	if next.Transform != nil {
		out.Transform = next.Transform
	}
	if next.Opacity != nil {
		out.Opacity = next.Opacity
	}

	return out
}

// TextUpdate is a partial payload over text-only fields
type TextUpdate struct {
	Content         *string
	FontSize        *float64
	FontFamily      *string
	Color           *string
	BackgroundColor *string
	TextAlign       *string
	FontWeight      *string
	FontStyle       *string
	TextDecoration  *string
	Metadata        map[string]string
}

// Apply returns a copy of e with the non-nil text fields of u merged in.
// Elements that are not text overlays are returned as-is.
func (u TextUpdate) Apply(e *Element) *Element {
	if !e.IsText() {
		return e
	}

	out := *e

	var text TextProps
	if e.Text != nil {
		text = *e.Text
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&text.Content, u.Content)
	setString(&text.FontFamily, u.FontFamily)
	setString(&text.Color, u.Color)
	setString(&text.BackgroundColor, u.BackgroundColor)
	setString(&text.TextAlign, u.TextAlign)
	setString(&text.FontWeight, u.FontWeight)
	setString(&text.FontStyle, u.FontStyle)
	setString(&text.TextDecoration, u.TextDecoration)

	if u.FontSize != nil {
		text.FontSize = *u.FontSize
	}

	if u.Metadata != nil {
		text.Metadata = maps.Clone(u.Metadata)
	}

	out.Text = &text

	return &out
}

// Merge combines two text payloads; fields set in next win
func (u TextUpdate) Merge(next TextUpdate) TextUpdate {
	out := u

	pick := func(a, b *string) *string {
		if b != nil {
			return b
		}
		return a
	}

	out.Content = pick(u.Content, next.Content)
	out.FontFamily = pick(u.FontFamily, next.FontFamily)
	out.Color = pick(u.Color, next.Color)
	out.BackgroundColor = pick(u.BackgroundColor, next.BackgroundColor)
	out.TextAlign = pick(u.TextAlign, next.TextAlign)
	out.FontWeight = pick(u.FontWeight, next.FontWeight)
	out.FontStyle = pick(u.FontStyle, next.FontStyle)
	out.TextDecoration = pick(u.TextDecoration, next.TextDecoration)

	if next.FontSize != nil {
		out.FontSize = next.FontSize
	}

	if next.Metadata != nil {
		out.Metadata = next.Metadata
	}

	return out
}

// Ptr returns a pointer to v, for building partial updates inline
func Ptr[T any](v T) *T {
	return &v
}
