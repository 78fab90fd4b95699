package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/key"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		target := Capture

		Convey("It renders correctly for each variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					result := Get(target)
					So(result, ShouldNotBeEmpty)
				})
			}
		})

		Convey("An unknown variant falls back to plain", func() {
			viper.Set(key.IconsVariant, "sparkles")
			So(Current(), ShouldEqual, Plain)
			So(Get(target), ShouldEqual, icons[target].plain)
		})

		Convey("An unregistered icon renders as nothing", func() {
			So(Get(Icon(0)), ShouldBeEmpty)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Every icon renders in every variant", t, func() {
		for i, def := range icons {
			So(i, ShouldBeGreaterThan, 0)
			So(def.emoji, ShouldNotBeEmpty)
			So(def.nerd, ShouldNotBeEmpty)
			So(def.plain, ShouldNotBeEmpty)
			So(def.kaomoji, ShouldNotBeEmpty)
			So(def.squares, ShouldNotBeEmpty)
		}
	})
}
