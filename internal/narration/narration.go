// Package narration turns the message keys emitted by the exercise into the
// sentences the virtual teacher says.
package narration

import (
	"strings"

	"github.com/kiliankoe/calculecrit/internal/game"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supportedTags = []language.Tag{
	language.French,
	language.English,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Default returns the language lessons are narrated in when nothing else is
// asked for.
func Default() language.Tag {
	return language.French
}

// Supported returns the list of narrated languages.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// ResolveTag picks the closest narrated language for a BCP 47 value such as
// "fr-CA" or an Accept-Language header.
func ResolveTag(value string) language.Tag {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default()
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return Default()
	}
	_, idx, conf := tagMatcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return supportedTags[idx]
}

// Narrator renders message keys in one language.
type Narrator struct {
	tag     language.Tag
	printer *message.Printer
}

func New(tag language.Tag) *Narrator {
	return &Narrator{tag: tag, printer: message.NewPrinter(tag)}
}

func (n *Narrator) Tag() language.Tag { return n.tag }

// Text renders key against the state it was produced in.
func (n *Narrator) Text(key string, snap game.Snapshot) string {
	key, args := arguments(key, snap)
	return n.printer.Sprintf(key, args...)
}

// arguments refines key by the color being asked about and returns the
// values its format refers to.
func arguments(key string, snap game.Snapshot) (string, []any) {
	switch key {
	case "phase.secondColor":
		if snap.FirstColorIsRed {
			return key + ".blue", []any{snap.RedCount + snap.BlueCount, snap.UserRedCount}
		}
		return key + ".red", []any{snap.RedCount + snap.BlueCount, snap.UserBlueCount}
	case "phase.verify.correct", "phase.verify.incorrect":
		if snap.IsSubtractionMode {
			if snap.FirstColorIsRed {
				return key + ".subtraction", []any{snap.RedCount + snap.BlueCount, snap.RedCount, snap.BlueCount}
			}
			return key + ".subtraction", []any{snap.RedCount + snap.BlueCount, snap.BlueCount, snap.RedCount}
		}
		return key, []any{snap.RedCount, snap.BlueCount, snap.RedCount + snap.BlueCount, snap.UserTotalCount}
	case "phase.result":
		return key, []any{snap.Score, snap.TotalQuestions}
	case "phase.intro":
		return key, []any{snap.Module, snap.Level}
	}
	return key, nil
}
