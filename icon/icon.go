// Package icon renders the status symbols of the CLI and the player screens.
//
// Every symbol exists in five variants (emoji, nerd-font glyphs, plain ASCII, kaomoji and
// colored squares) selected with icons.variant.
package icon

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/key"
)

// Variant is a rendering style.
type Variant string

const (
	Emoji   Variant = "emoji"
	Nerd    Variant = "nerd"
	Plain   Variant = "plain"
	Kaomoji Variant = "kaomoji"
	Squares Variant = "squares"
)

var variants = []Variant{Emoji, Nerd, Plain, Kaomoji, Squares}

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return lo.Map(variants, func(v Variant, _ int) string { return string(v) })
}

// Current returns the configured variant. Unknown values render as Plain.
func Current() Variant {
	v := Variant(viper.GetString(key.IconsVariant))
	if lo.Contains(variants, v) {
		return v
	}
	return Plain
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) in(v Variant) string {
	switch v {
	case Emoji:
		return d.emoji
	case Nerd:
		return d.nerd
	case Kaomoji:
		return d.kaomoji
	case Squares:
		return d.squares
	default:
		return d.plain
	}
}

// Get renders i in the configured variant.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.in(Current())
}
