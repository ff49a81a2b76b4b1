package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Totarae/tinylink/internal/clipboard"
	"github.com/Totarae/tinylink/internal/model"
	"github.com/Totarae/tinylink/internal/service"
	"github.com/Totarae/tinylink/internal/service/mocks"
	"github.com/Totarae/tinylink/internal/session"
	"github.com/Totarae/tinylink/internal/tinyurl"
	"github.com/Totarae/tinylink/internal/validator"
)

type fixture struct {
	form      *service.FormController
	state     *session.State
	shortener *mocks.MockShortener
	copier    *mocks.MockCopier
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		state:     session.NewState(),
		shortener: mocks.NewMockShortener(ctrl),
		copier:    mocks.NewMockCopier(ctrl),
	}
	f.form = service.NewFormController(validator.New(), f.shortener, f.copier, f.state, zap.NewNop())
	return f
}

func TestFormController_SubmitSuccess(t *testing.T) {
	f := newFixture(t)
	f.shortener.EXPECT().
		Shorten(gomock.Any(), "https://example.com/very/long/path").
		Return("https://tinyurl.com/abc123", nil)

	out := f.form.Submit(context.Background(), "https://example.com/very/long/path")

	require.NoError(t, out.Err)
	assert.Equal(t, service.StateDone, out.State)
	assert.Equal(t, model.Message{Level: model.LevelSuccess, Text: model.TextShortened}, out.Message)

	got, ok := f.state.Get()
	assert.True(t, ok)
	assert.Equal(t, "https://tinyurl.com/abc123", got)

	view := f.form.View()
	assert.Equal(t, "https://tinyurl.com/abc123", view.ShortURL)
	assert.True(t, view.CanCopy)
	assert.Equal(t, service.StateDone, view.State)
}

func TestFormController_SubmitKeepsLatestSuccess(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.shortener.EXPECT().Shorten(gomock.Any(), "https://example.com/1").Return("https://tinyurl.com/one", nil),
		f.shortener.EXPECT().Shorten(gomock.Any(), "https://example.com/2").Return("https://tinyurl.com/two", nil),
		f.shortener.EXPECT().Shorten(gomock.Any(), "https://example.com/3").Return("https://tinyurl.com/three", nil),
	)

	for _, u := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		out := f.form.Submit(context.Background(), u)
		require.NoError(t, out.Err)
	}

	got, _ := f.state.Get()
	assert.Equal(t, "https://tinyurl.com/three", got)
}

func TestFormController_SubmitInvalid(t *testing.T) {
	f := newFixture(t)
	f.state.Set("https://tinyurl.com/prev")

	// без EXPECT любой вызов Shorten провалит тест
	out := f.form.Submit(context.Background(), "not-a-url")

	assert.ErrorIs(t, out.Err, validator.ErrInvalidURL)
	assert.Equal(t, service.StateIdle, out.State)
	assert.Equal(t, model.LevelError, out.Message.Level)
	assert.Equal(t, model.TextInvalidURL, out.Message.Text)

	got, ok := f.state.Get()
	assert.True(t, ok)
	assert.Equal(t, "https://tinyurl.com/prev", got)
}

func TestFormController_SubmitEmptyIsNoop(t *testing.T) {
	f := newFixture(t)

	out := f.form.Submit(context.Background(), "")
	assert.NoError(t, out.Err)
	assert.True(t, out.Message.Empty())
	assert.Equal(t, service.StateIdle, out.State)

	_, ok := f.state.Get()
	assert.False(t, ok)
}

func TestFormController_SubmitWhitespaceIsInvalid(t *testing.T) {
	f := newFixture(t)
	f.state.Set("https://tinyurl.com/prev")

	for _, input := range []string{"   ", "\t\n"} {
		out := f.form.Submit(context.Background(), input)
		assert.ErrorIs(t, out.Err, validator.ErrInvalidURL)
		assert.Equal(t, model.Message{Level: model.LevelError, Text: model.TextInvalidURL}, out.Message)
		assert.Equal(t, service.StateIdle, out.State)
	}

	got, _ := f.state.Get()
	assert.Equal(t, "https://tinyurl.com/prev", got)
}

func TestFormController_SubmitEmptyAfterDoneKeepsDone(t *testing.T) {
	f := newFixture(t)
	f.shortener.EXPECT().Shorten(gomock.Any(), gomock.Any()).Return("https://tinyurl.com/abc123", nil)

	f.form.Submit(context.Background(), "https://example.com")
	out := f.form.Submit(context.Background(), "")

	assert.Equal(t, service.StateDone, out.State)
	assert.True(t, out.Message.Empty())
}

func TestFormController_SubmitShortenFailure(t *testing.T) {
	f := newFixture(t)
	f.state.Set("https://tinyurl.com/prev")

	f.shortener.EXPECT().
		Shorten(gomock.Any(), "https://example.com").
		Return("", &tinyurl.Error{Cause: "dial tcp: connection refused"})

	before, _ := f.state.Get()
	out := f.form.Submit(context.Background(), "https://example.com")
	after, _ := f.state.Get()

	assert.ErrorIs(t, out.Err, tinyurl.ErrShortenFailed)
	assert.Equal(t, service.StateIdle, out.State)
	assert.Equal(t, model.LevelError, out.Message.Level)
	assert.Equal(t, "Error shortening URL: dial tcp: connection refused", out.Message.Text)
	assert.Equal(t, before, after)
}

func TestFormController_SubmitForeignErrorIsWrapped(t *testing.T) {
	f := newFixture(t)
	f.shortener.EXPECT().Shorten(gomock.Any(), gomock.Any()).Return("", errors.New("boom"))

	out := f.form.Submit(context.Background(), "https://example.com")

	assert.ErrorIs(t, out.Err, tinyurl.ErrShortenFailed)
	assert.Equal(t, "Error shortening URL: boom", out.Message.Text)
	_, ok := f.state.Get()
	assert.False(t, ok)
}

func TestFormController_DoneReturnsToIdleOnNextFailure(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.shortener.EXPECT().Shorten(gomock.Any(), gomock.Any()).Return("https://tinyurl.com/abc123", nil),
		f.shortener.EXPECT().Shorten(gomock.Any(), gomock.Any()).Return("", &tinyurl.Error{Cause: "timeout"}),
	)

	assert.Equal(t, service.StateDone, f.form.Submit(context.Background(), "https://example.com/a").State)
	assert.Equal(t, service.StateIdle, f.form.Submit(context.Background(), "https://example.com/b").State)

	view := f.form.View()
	assert.Equal(t, "https://tinyurl.com/abc123", view.ShortURL)
	assert.True(t, view.CanCopy)
}

func TestFormController_Copy(t *testing.T) {
	f := newFixture(t)
	f.state.Set("https://tinyurl.com/abc123")
	f.copier.EXPECT().Copy("https://tinyurl.com/abc123").Return(nil)

	out := f.form.Copy()

	assert.NoError(t, out.Err)
	assert.Equal(t, model.Message{Level: model.LevelInfo, Text: model.TextCopied}, out.Message)
}

func TestFormController_CopyFailureIsWarning(t *testing.T) {
	f := newFixture(t)
	f.state.Set("https://tinyurl.com/abc123")
	f.copier.EXPECT().Copy("https://tinyurl.com/abc123").Return(errors.New("no display"))

	out := f.form.Copy()

	assert.ErrorIs(t, out.Err, clipboard.ErrCopyFailed)
	assert.Equal(t, model.Message{Level: model.LevelWarning, Text: model.TextCopyFailed}, out.Message)

	got, _ := f.state.Get()
	assert.Equal(t, "https://tinyurl.com/abc123", got)
	assert.True(t, f.form.View().CanCopy)
}

func TestFormController_CopyPanicIsWarning(t *testing.T) {
	f := newFixture(t)
	f.state.Set("https://tinyurl.com/abc123")
	f.copier.EXPECT().Copy(gomock.Any()).DoAndReturn(func(string) error {
		panic("clipboard backend crashed")
	})

	var out service.Outcome
	assert.NotPanics(t, func() { out = f.form.Copy() })

	assert.ErrorIs(t, out.Err, clipboard.ErrCopyFailed)
	assert.Equal(t, model.LevelWarning, out.Message.Level)

	got, _ := f.state.Get()
	assert.Equal(t, "https://tinyurl.com/abc123", got)
}

func TestFormController_CopyWithoutResult(t *testing.T) {
	f := newFixture(t)

	out := f.form.Copy()

	assert.NoError(t, out.Err)
	assert.Equal(t, model.TextNothingToCopy, out.Message.Text)
	assert.False(t, f.form.View().CanCopy)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", service.StateIdle.String())
	assert.Equal(t, "validating", service.StateValidating.String())
	assert.Equal(t, "shortening", service.StateShortening.String())
	assert.Equal(t, "done", service.StateDone.String())
	assert.Equal(t, "state(42)", service.State(42).String())
}
