package nakama

import (
	"context"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"rpsbomb/internal/app"
	"rpsbomb/internal/bot"
	"rpsbomb/internal/domain"
	"rpsbomb/internal/ports/memory"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode int64
	data   []byte
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages []sentMessage
	labels   []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.messages = append(md.messages, sentMessage{opCode: opCode, data: append([]byte(nil), data...)})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) opCodes() []int64 {
	out := make([]int64, len(md.messages))
	for i, m := range md.messages {
		out[i] = m.opCode
	}
	return out
}

func (md *mockDispatcher) last(opCode int64) []byte {
	for i := len(md.messages) - 1; i >= 0; i-- {
		if md.messages[i].opCode == opCode {
			return md.messages[i].data
		}
	}
	return nil
}

func (md *mockDispatcher) lastLabel() MatchLabel {
	var l MatchLabel
	if len(md.labels) > 0 {
		_ = json.Unmarshal([]byte(md.labels[len(md.labels)-1]), &l)
	}
	return l
}

// fakeNakama overrides the match calls the RPCs use; anything else panics.
type fakeNakama struct {
	runtime.NakamaModule
	listed      []*api.Match
	created     []string
	lastQuery   string
	createCount int
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.lastQuery = query
	return f.listed, nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.createCount++
	f.created = append(f.created, module)
	return "match-new", nil
}

func scriptedReferee(moves ...domain.Move) *app.Service {
	return app.NewService(memory.NewStore(), bot.NewAgent("", bot.NewScriptedBrain(moves...)))
}

func userCtx(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}
