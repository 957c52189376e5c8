package envstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	s := New(Layer{"TARGET": "release", "DIR": "build"})

	t.Run("substitutes resolved variables", func(t *testing.T) {
		assert.Equal(t, "out/build/release", s.Interpolate("out/${DIR}/${TARGET}"))
	})

	t.Run("absent variables become empty", func(t *testing.T) {
		assert.Equal(t, "prefix--suffix", s.Interpolate("prefix-${MISSING}-suffix"))
	})

	t.Run("layer overrides apply", func(t *testing.T) {
		s.Push(Layer{"TARGET": "debug"})
		defer s.Pop()
		assert.Equal(t, "debug", s.Interpolate("${TARGET}"))
	})

	t.Run("forwarded args token is left alone", func(t *testing.T) {
		assert.Equal(t, "${@}", s.Interpolate("${@}"))
	})
}

func TestExpandArgs(t *testing.T) {
	s := New(Layer{"FLAGS": "--release --verbose", "LIST": "a;b;c"})

	t.Run("plain args are interpolated", func(t *testing.T) {
		got := s.ExpandArgs([]string{"build", "${LIST}"}, nil)
		assert.Equal(t, []string{"build", "a;b;c"}, got)
	})

	t.Run("trailing args expand in place", func(t *testing.T) {
		got := s.ExpandArgs([]string{"test", "${@}", "--done"}, []string{"-v", "./..."})
		assert.Equal(t, []string{"test", "-v", "./...", "--done"}, got)
	})

	t.Run("no trailing args contributes nothing", func(t *testing.T) {
		got := s.ExpandArgs([]string{"test", "${@}"}, nil)
		assert.Equal(t, []string{"test"}, got)
	})

	t.Run("embedded trailing args join with spaces", func(t *testing.T) {
		got := s.ExpandArgs([]string{"--flags=${@}"}, []string{"-v", "-x"})
		assert.Equal(t, []string{"--flags=-v -x"}, got)
	})

	t.Run("embedded token with no trailing args substitutes empty", func(t *testing.T) {
		got := s.ExpandArgs([]string{"--flags=${@}"}, nil)
		assert.Equal(t, []string{"--flags="}, got)
	})

	t.Run("split expands one argument into many", func(t *testing.T) {
		got := s.ExpandArgs([]string{"build", "@@split(FLAGS, )"}, nil)
		assert.Equal(t, []string{"build", "--release", "--verbose"}, got)
	})

	t.Run("split honors a custom delimiter", func(t *testing.T) {
		got := s.ExpandArgs([]string{"@@split(LIST,;)"}, nil)
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("split of an unset variable contributes nothing", func(t *testing.T) {
		got := s.ExpandArgs([]string{"build", "@@split(MISSING, )"}, nil)
		assert.Equal(t, []string{"build"}, got)
	})
}
