package events

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/nats-io/nats.go"
)

func TestNoopPublisher_Publish(t *testing.T) {
	pub := &NoopPublisher{}
	err := pub.Publish(context.Background(), TopicAccountCreated, AccountChanged{})
	if err != nil {
		t.Fatalf("NoopPublisher.Publish returned unexpected error: %v", err)
	}
}

func TestNoopPublisher_Close(t *testing.T) {
	pub := &NoopPublisher{}
	if err := pub.Close(); err != nil {
		t.Fatalf("NoopPublisher.Close returned unexpected error: %v", err)
	}
}

func TestNoopPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestAccountChanged_RoleChangedOutOfMember(t *testing.T) {
	for _, tc := range []struct {
		name string
		ev   AccountChanged
		want bool
	}{
		{"create", AccountChanged{Account: &model.Account{Role: model.RoleEditor}}, false},
		{"member to editor", AccountChanged{
			Account:  &model.Account{Role: model.RoleEditor},
			Previous: &model.Account{Role: model.RoleMember},
		}, true},
		{"editor to viewer", AccountChanged{
			Account:  &model.Account{Role: model.RoleViewer},
			Previous: &model.Account{Role: model.RoleEditor},
		}, false},
		{"member stays member", AccountChanged{
			Account:  &model.Account{Role: model.RoleMember},
			Previous: &model.Account{Role: model.RoleMember},
		}, false},
	} {
		if got := tc.ev.RoleChangedOutOfMember(); got != tc.want {
			t.Errorf("%s: RoleChangedOutOfMember() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAccountChanged_HashNeverMarshals(t *testing.T) {
	ev := AccountChanged{
		Account:         &model.Account{ID: "acc-1", Email: "a@x.com"},
		NewPasswordHash: "$2a$10$secret",
	}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("marshaled event leaks credential hash: %s", data)
	}
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	// Subscribe to capture published messages.
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(TopicAccountCreated, ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	event := AccountChanged{Account: &model.Account{ID: "acc-pub1", Email: "a@x.com"}}
	if err := pub.Publish(context.Background(), TopicAccountCreated, event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	pub.conn.Flush()

	select {
	case msg := <-ch:
		var got AccountChanged
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Account.ID != "acc-pub1" {
			t.Errorf("got account ID=%q, want %q", got.Account.ID, "acc-pub1")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_PublishMultipleTopics(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 4)
	sub, err := nc.ChanSubscribe("civicd.>", ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	for _, tc := range []struct {
		topic string
		event any
	}{
		{TopicAccountCreated, AccountChanged{Account: &model.Account{ID: "acc-1"}}},
		{TopicAccountDeleted, AccountDeleted{AccountID: "acc-2"}},
		{TopicMemberRemoved, MemberRemoved{MemberID: "mem-1", AccountID: "acc-2"}},
		{TopicContentDeleted, ContentDeleted{Collection: model.CollectionNews, ID: "news-1"}},
	} {
		if err := pub.Publish(context.Background(), tc.topic, tc.event); err != nil {
			t.Fatalf("Publish(%s): %v", tc.topic, err)
		}
	}
	pub.conn.Flush()

	for i := 0; i < 4; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestNATSPublisher_Close(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}

	if err := pub.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// Publishing after close should fail.
	err = pub.Publish(context.Background(), TopicAccountCreated, AccountChanged{})
	if err == nil {
		t.Error("expected error publishing after close")
	}
}
