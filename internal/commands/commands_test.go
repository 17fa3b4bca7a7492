package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hordebot/internal/bot"
	"hordebot/internal/craiyon"
	"hordebot/internal/httpx"
	"hordebot/internal/telegram"
)

type fakeTransport struct {
	sent    []string
	deleted []telegram.Message
}

func (t *fakeTransport) SendMarkdown(_ context.Context, _ int64, _ int, text string) (telegram.Message, error) {
	t.sent = append(t.sent, text)
	return telegram.Message{}, nil
}

func (t *fakeTransport) SendPlain(_ context.Context, _ int64, _ int, text string) (telegram.Message, error) {
	t.sent = append(t.sent, text)
	return telegram.Message{}, nil
}

func (t *fakeTransport) EditMarkdown(_ context.Context, msg telegram.Message, text string) (telegram.Message, error) {
	t.sent = append(t.sent, text)
	return msg, nil
}

func (t *fakeTransport) EditPlain(_ context.Context, msg telegram.Message, text string) (telegram.Message, error) {
	t.sent = append(t.sent, text)
	return msg, nil
}

func (t *fakeTransport) SendPhoto(_ context.Context, _ int64, _ int, _, _, _, _ string) (telegram.Message, error) {
	return telegram.Message{}, nil
}

func (t *fakeTransport) Delete(_ context.Context, msg telegram.Message) error {
	t.deleted = append(t.deleted, msg)
	return nil
}

func (t *fakeTransport) SendTyping(context.Context, int64) {}

func newInvocation(trans *fakeTransport) *bot.Invocation {
	return &bot.Invocation{ChatID: 100, MessageID: 7, UserID: 42, Transport: trans}
}

func TestCharInfoFormatsCodePoints(t *testing.T) {
	trans := &fakeTransport{}
	err := NewCharInfo().Execute(context.Background(), newInvocation(trans), "aż")
	require.NoError(t, err)

	require.Len(t, trans.sent, 1)
	assert.Equal(t, "`a` `U\\+0061`\n`ż` `U\\+017C`", trans.sent[0])
}

func TestCharInfoTruncatesLongInput(t *testing.T) {
	trans := &fakeTransport{}
	err := NewCharInfo().Execute(context.Background(), newInvocation(trans), strings.Repeat("a", 30))
	require.NoError(t, err)

	require.Len(t, trans.sent, 1)
	lines := strings.Split(trans.sent[0], "\n")
	require.Len(t, lines, charinfoMaxLines+1)
	assert.Equal(t, "…", lines[charinfoMaxLines])
}

func TestDeleteIgnoresNonOwner(t *testing.T) {
	trans := &fakeTransport{}
	inv := newInvocation(trans)
	inv.ReplyMessageID = 55

	err := NewDelete(9000).Execute(context.Background(), inv, "")
	require.NoError(t, err)
	assert.Empty(t, trans.deleted)
}

func TestDeleteRemovesRepliedMessageForOwner(t *testing.T) {
	trans := &fakeTransport{}
	inv := newInvocation(trans)
	inv.ReplyMessageID = 55

	err := NewDelete(inv.UserID).Execute(context.Background(), inv, "")
	require.NoError(t, err)
	require.Len(t, trans.deleted, 1)
	assert.Equal(t, telegram.Message{ChatID: 100, ID: 55}, trans.deleted[0])
}

func TestDeleteWithoutConfiguredOwnerIsInert(t *testing.T) {
	trans := &fakeTransport{}
	inv := newInvocation(trans)
	inv.UserID = 0
	inv.ReplyMessageID = 55

	err := NewDelete(0).Execute(context.Background(), inv, "")
	require.NoError(t, err)
	assert.Empty(t, trans.deleted)
}

func TestCraiyonRejectsOverlongPromptBeforeSubmission(t *testing.T) {
	trans := &fakeTransport{}
	cmd := NewCraiyon(nil) // the client must never be reached

	err := cmd.Execute(context.Background(), newInvocation(trans), strings.Repeat("a", 1025))

	var userErr *bot.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.Message, "too long")
}

func TestCraiyonChecksRateLimitBeforeValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"images":[]}`))
	}))
	defer srv.Close()

	client := craiyon.NewClient(
		httpx.NewClient(&http.Client{Timeout: 5 * time.Second}, zerolog.Nop()), srv.URL)
	cmd := NewCraiyon(client)

	trans := &fakeTransport{}
	inv := newInvocation(trans)
	for i := 0; i < 3; i++ {
		require.NoError(t, cmd.Execute(context.Background(), inv, "a cat"))
	}

	// Past the budget the denial wins even over an invalid prompt.
	err := cmd.Execute(context.Background(), inv, strings.Repeat("a", 1025))
	assert.ErrorIs(t, err, bot.ErrRateLimited)
}

func TestCraiyonRequiresPrompt(t *testing.T) {
	trans := &fakeTransport{}
	err := NewCraiyon(nil).Execute(context.Background(), newInvocation(trans), "   ")

	var userErr *bot.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "missing argument: prompt to generate.", userErr.Message)
}

func TestHelpListsCommands(t *testing.T) {
	trans := &fakeTransport{}
	help := NewHelp(func() []string {
		return []string{"/echo — repeats", "/ping — measures"}
	})

	err := help.Execute(context.Background(), newInvocation(trans), "")
	require.NoError(t, err)
	require.Len(t, trans.sent, 1)
	assert.Equal(t, "/echo — repeats\n/ping — measures", trans.sent[0])
}
