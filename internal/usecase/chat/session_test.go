package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/backendtest"
	"github.com/senuthbros6699-eng/dialect/internal/repository"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend *backendtest.Backend
	notices *backendtest.Notices
	cfg     chat.Config
}

func newFixture(order chat.Ordering) *fixture {
	b := backendtest.New()
	n := &backendtest.Notices{}
	return &fixture{
		backend: b,
		notices: n,
		cfg: chat.Config{
			Messages: repository.NewMessageRepository(b.MessageRepository(), b.Broker),
			Realtime: b.Broker,
			Notifier: n,
			Ordering: order,
		},
	}
}

// otherClient inserts a message the way another browser would
func (f *fixture) otherClient(t *testing.T, community, text string) domain.Message {
	t.Helper()
	m := &domain.Message{CommunitySlug: community, Author: "bob", Content: text}
	require.NoError(t, f.cfg.Messages.Store(context.Background(), m))
	return *m
}

var ada = &domain.Viewer{ID: "u-1", Email: "ada@example.com"}

func contents(msgs []domain.Message) []string {
	res := make([]string, len(msgs))
	for i, m := range msgs {
		res[i] = m.Content
	}
	return res
}

func TestOpenLoadsHistoryThenLiveMessages(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	f.backend.SeedMessage(domain.Message{CommunitySlug: "future-tech", Author: "bob", Content: "one"})
	f.backend.SeedMessage(domain.Message{CommunitySlug: "future-tech", Author: "bob", Content: "two"})
	f.backend.SeedMessage(domain.Message{CommunitySlug: "art", Author: "cyd", Content: "elsewhere"})

	sess, err := chat.NewSlot(ada, f.cfg).Open(context.Background(), "future-tech")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, contents(sess.Messages()))

	f.otherClient(t, "future-tech", "three")
	assert.Equal(t, []string{"one", "two", "three"}, contents(sess.Messages()))
}

func TestMessagesAreAppendedExactlyOnce(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	sess, err := chat.NewSlot(ada, f.cfg).Open(context.Background(), "future-tech")
	require.NoError(t, err)

	m := f.otherClient(t, "future-tech", "hello")
	f.backend.Broker.Inject(domain.CollectionMessages, m)
	f.backend.Broker.Inject(domain.CollectionMessages, m)

	assert.Len(t, sess.Messages(), 1)
}

func TestSendShowsMessageOnce(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	sess, err := chat.NewSlot(ada, f.cfg).Open(context.Background(), "future-tech")
	require.NoError(t, err)

	sent, err := sess.Send(context.Background(), " hi all ")
	require.NoError(t, err)
	assert.Equal(t, "ada", sent.Author)
	assert.Equal(t, "hi all", sent.Content)

	msgs := sess.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, sent.ID, msgs[0].ID)
	assert.Len(t, f.backend.Messages(), 1)
}

func TestSwitchingCommunityKeepsOneSubscription(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	slot := chat.NewSlot(ada, f.cfg)

	a, err := slot.Open(context.Background(), "a")
	require.NoError(t, err)
	b, err := slot.Open(context.Background(), "b")
	require.NoError(t, err)

	assert.Equal(t, 1, f.backend.Broker.Active(domain.CollectionMessages))
	assert.True(t, a.Closed())
	assert.Same(t, b, slot.Current())

	f.otherClient(t, "a", "for a")
	assert.Empty(t, b.Messages())
	assert.Empty(t, a.Messages())

	_, err = a.Send(context.Background(), "late")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestForeignCommunityIsDropped(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	sess, err := chat.NewSlot(ada, f.cfg).Open(context.Background(), "a")
	require.NoError(t, err)

	f.backend.Broker.Inject(domain.CollectionMessages, domain.Message{ID: 99, CommunitySlug: "b", Content: "leak"})
	assert.Empty(t, sess.Messages())
}

func TestUnauthenticatedSendIsRefused(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	f.backend.SeedMessage(domain.Message{CommunitySlug: "a", Content: "existing"})
	sess, err := chat.NewSlot(nil, f.cfg).Open(context.Background(), "a")
	require.NoError(t, err)

	_, err = sess.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, f.backend.Calls(backendtest.OpMessageStore))
	assert.Equal(t, []string{"existing"}, contents(sess.Messages()))
	assert.Len(t, f.notices.All(), 1)
}

func TestEmptySendIsRefused(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	sess, err := chat.NewSlot(ada, f.cfg).Open(context.Background(), "a")
	require.NoError(t, err)

	_, err = sess.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
	assert.Zero(t, f.backend.Calls(backendtest.OpMessageStore))
	assert.Len(t, f.notices.All(), 1)
}

func TestSendFailureNotifies(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	sess, err := chat.NewSlot(ada, f.cfg).Open(context.Background(), "a")
	require.NoError(t, err)
	f.backend.Fail(backendtest.OpMessageStore, errors.New("down"))

	_, err = sess.Send(context.Background(), "hello")
	assert.Error(t, err)
	assert.Empty(t, sess.Messages())
	assert.Len(t, f.notices.All(), 1)
}

func TestOutOfOrderDelivery(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	late := domain.Message{ID: 10, CommunitySlug: "a", Content: "late", CreatedAt: base.Add(2 * time.Minute)}
	early := domain.Message{ID: 11, CommunitySlug: "a", Content: "early", CreatedAt: base.Add(time.Minute)}

	t.Run("by creation", func(t *testing.T) {
		f := newFixture(chat.OrderByCreation)
		sess, err := chat.NewSlot(ada, f.cfg).Open(context.Background(), "a")
		require.NoError(t, err)
		f.backend.Broker.Inject(domain.CollectionMessages, late)
		f.backend.Broker.Inject(domain.CollectionMessages, early)
		assert.Equal(t, []string{"early", "late"}, contents(sess.Messages()))
	})

	t.Run("by arrival", func(t *testing.T) {
		f := newFixture(chat.OrderByArrival)
		sess, err := chat.NewSlot(ada, f.cfg).Open(context.Background(), "a")
		require.NoError(t, err)
		f.backend.Broker.Inject(domain.CollectionMessages, late)
		f.backend.Broker.Inject(domain.CollectionMessages, early)
		assert.Equal(t, []string{"late", "early"}, contents(sess.Messages()))
	})
}

func TestCloseIsIdempotent(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	slot := chat.NewSlot(ada, f.cfg)
	require.NoError(t, slot.Close())

	sess, err := slot.Open(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())
	require.NoError(t, slot.Close())

	assert.Nil(t, slot.Current())
	assert.Zero(t, f.backend.Broker.Active(domain.CollectionMessages))

	f.backend.Broker.Inject(domain.CollectionMessages, domain.Message{ID: 1, CommunitySlug: "a"})
	assert.Empty(t, sess.Messages())
}

func TestListen(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	sess, err := chat.NewSlot(ada, f.cfg).Open(context.Background(), "a")
	require.NoError(t, err)

	ch, cancel := sess.Listen(4)
	m := f.otherClient(t, "a", "ping")
	select {
	case got := <-ch:
		assert.Equal(t, m.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
	cancel()
	_, open := <-ch
	assert.False(t, open)

	ch2, _ := sess.Listen(1)
	require.NoError(t, sess.Close())
	_, open = <-ch2
	assert.False(t, open)
}

func TestEnsureReusesOpenSession(t *testing.T) {
	f := newFixture(chat.OrderByCreation)
	slot := chat.NewSlot(ada, f.cfg)

	first, err := slot.Ensure(context.Background(), "a")
	require.NoError(t, err)
	again, err := slot.Ensure(context.Background(), "a")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, f.backend.Calls(backendtest.OpMessageFetch))

	other, err := slot.Ensure(context.Background(), "b")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 1, f.backend.Broker.Active(domain.CollectionMessages))
}

func TestOpenFailures(t *testing.T) {
	t.Run("subscribe", func(t *testing.T) {
		f := newFixture(chat.OrderByCreation)
		f.backend.Broker.FailSubscribe(errors.New("offline"))
		slot := chat.NewSlot(ada, f.cfg)

		_, err := slot.Open(context.Background(), "a")
		assert.Error(t, err)
		assert.Nil(t, slot.Current())
	})

	t.Run("history", func(t *testing.T) {
		f := newFixture(chat.OrderByCreation)
		f.backend.Fail(backendtest.OpMessageFetch, errors.New("down"))
		slot := chat.NewSlot(ada, f.cfg)

		_, err := slot.Open(context.Background(), "a")
		assert.Error(t, err)
		assert.Zero(t, f.backend.Broker.Active(domain.CollectionMessages))
		assert.Len(t, f.notices.All(), 1)
	})
}

func TestParseOrdering(t *testing.T) {
	assert.Equal(t, chat.OrderByArrival, chat.ParseOrdering("arrival"))
	assert.Equal(t, chat.OrderByCreation, chat.ParseOrdering("created"))
	assert.Equal(t, chat.OrderByCreation, chat.ParseOrdering(""))
}
