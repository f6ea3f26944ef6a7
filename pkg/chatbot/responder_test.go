package chatbot

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ppods-be/pkg/appstate"
	"ppods-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply   string
	err     error
	history []llm.Message
}

func (f *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.history = history
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func transcript(n int) []appstate.ChatMessage {
	out := make([]appstate.ChatMessage, n)
	for i := range out {
		out[i] = appstate.ChatMessage{
			ID:            fmt.Sprintf("m%d", i),
			Content:       fmt.Sprintf("msg %d", i),
			Type:          appstate.MessageTypeText,
			IsUserMessage: i%2 == 1,
		}
	}
	return out
}

func TestCannedResponder(t *testing.T) {
	ctx := context.Background()
	r := CannedResponder{}

	w, err := r.Welcome(ctx)
	require.NoError(t, err)
	assert.Equal(t, WelcomeText, w)

	reply, err := r.Reply(ctx, transcript(3))
	require.NoError(t, err)
	assert.Equal(t, ReplyText, reply)
}

func TestBuildHistoryWindow(t *testing.T) {
	h := BuildHistory(transcript(5), 3)

	require.Len(t, h, 4)
	assert.Equal(t, llm.RoleSystem, h[0].Role)
	assert.Equal(t, "msg 2", h[1].Content)
	assert.Equal(t, llm.RoleAssistant, h[1].Role)
	assert.Equal(t, llm.RoleUser, h[2].Role)
	assert.Equal(t, "msg 4", h[3].Content)
}

func TestLLMResponderReply(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		p := &fakeProvider{reply: "Trust your instincts."}
		r := NewLLMResponder(p, 0)

		reply, err := r.Reply(ctx, transcript(2))
		require.NoError(t, err)
		assert.Equal(t, "Trust your instincts.", reply)
		assert.Len(t, p.history, 3)

		w, err := r.Welcome(ctx)
		require.NoError(t, err)
		assert.Equal(t, WelcomeText, w)
	})

	t.Run("provider error", func(t *testing.T) {
		boom := errors.New("connection refused")
		_, err := NewLLMResponder(&fakeProvider{err: boom}, 5).Reply(ctx, transcript(1))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("blank reply", func(t *testing.T) {
		_, err := NewLLMResponder(&fakeProvider{reply: "  "}, 5).Reply(ctx, transcript(1))
		assert.ErrorIs(t, err, ErrEmptyReply)
	})
}

func TestNew(t *testing.T) {
	r, err := New("", "", "", 0)
	require.NoError(t, err)
	assert.IsType(t, CannedResponder{}, r)

	r, err = New(KindOllama, "http://ollama:11434", "llama3", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &LLMResponder{}, r)

	_, err = New("parrot", "", "", 0)
	assert.Error(t, err)
}
