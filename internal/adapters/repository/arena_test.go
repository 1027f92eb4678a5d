package repository_test

import (
	"testing"

	"github.com/okian/senet/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestArena(t *testing.T) {
	Convey("Given an empty arena", t, func() {
		arena := repository.NewArena[string]()

		So(arena.Len(), ShouldEqual, 0)
		So(arena.Handles(), ShouldBeEmpty)

		Convey("When pushing elements", func() {
			first := arena.Push("alpha")
			second := arena.Push("beta")

			Convey("Then handles resolve to their elements", func() {
				a, err := arena.Get(first)
				So(err, ShouldBeNil)
				So(*a, ShouldEqual, "alpha")

				b, err := arena.Get(second)
				So(err, ShouldBeNil)
				So(*b, ShouldEqual, "beta")
			})

			Convey("And handles stay valid as the arena grows", func() {
				for i := 0; i < 1000; i++ {
					arena.Push("filler")
				}
				a, err := arena.Get(first)
				So(err, ShouldBeNil)
				So(*a, ShouldEqual, "alpha")
			})

			Convey("And mutation through a handle sticks", func() {
				a, err := arena.Get(first)
				So(err, ShouldBeNil)
				*a = "gamma"

				again, err := arena.Get(first)
				So(err, ShouldBeNil)
				So(*again, ShouldEqual, "gamma")
			})

			Convey("And Each visits elements in insertion order", func() {
				var seen []string
				arena.Each(func(_ repository.Handle, s *string) {
					seen = append(seen, *s)
				})
				So(seen, ShouldResemble, []string{"alpha", "beta"})
			})
		})

		Convey("When resolving a handle the arena never issued", func() {
			_, err := arena.Get(repository.Handle{})

			Convey("Then the lookup fails with a distinct error", func() {
				So(err, ShouldWrap, repository.ErrUnknownHandle)
			})
		})
	})

	Convey("Given an arena with pre-allocated capacity", t, func() {
		arena := repository.NewArena(repository.WithCapacity[int](64))

		So(arena.Len(), ShouldEqual, 0)
		h := arena.Push(42)
		v, err := arena.Get(h)
		So(err, ShouldBeNil)
		So(*v, ShouldEqual, 42)
	})
}
