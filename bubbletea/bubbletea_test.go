package bubbletea_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/campus"
	bt "github.com/fwojciec/campus/bubbletea"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, ask bt.AskFunc, opts ...bt.Option) bt.Model {
	t.Helper()
	return initModelWithSize(t, ask, 80, 24, opts...)
}

func initModelWithSize(t *testing.T, ask bt.AskFunc, width, height int, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(ask, campus.DefaultTheme(), opts...)
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// typeText feeds s to the model as a single rune key.
func typeText(t *testing.T, m bt.Model, s string) bt.Model {
	t.Helper()
	return updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// nopAsk answers every question with an empty reply.
func nopAsk(_ context.Context, req campus.AskRequest, _ campus.StreamHandler) (campus.AskResult, error) {
	return campus.AskResult{SessionID: req.SessionID}, nil
}

func TestRun_ContextCancelQuits(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bt.RunHeadless(ctx, bt.New(nopAsk, campus.DefaultTheme())) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("program did not quit after cancel")
	}
}

func TestRun_ExpiredContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- bt.RunHeadless(ctx, bt.New(nopAsk, campus.DefaultTheme())) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("program did not quit after deadline")
	}
}
