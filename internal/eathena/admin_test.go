package eathena

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/mana/mana-sub005/internal/game"
)

func TestAdminHandler(t *testing.T) {
	env := newTestEnv()
	h := NewAdminHandler(env.state, env.sent)

	if err := h.Announce("restart"); err != nil {
		t.Fatalf("Announce() returned an unexpected error: %v", err)
	}
	want := []byte{0x99, 0x00, 0x0b, 0x00, 'r', 'e', 's', 't', 'a', 'r', 't'}
	if diff := deep.Equal(env.sent.last(t).Bytes(), want); diff != nil {
		t.Errorf("unexpected CMSG_ADMIN_ANNOUNCE: %v", diff)
	}

	if err := h.Kick(150002); err != nil {
		t.Fatalf("Kick() returned an unexpected error: %v", err)
	}
	if env.sent.last(t).ID() != CMsgAdminKick || env.sent.last(t).Len() != 6 {
		t.Errorf("unexpected CMSG_ADMIN_KICK %v", env.sent.last(t))
	}

	ok := serverMessage(SMsgAdminKickAck)
	ok.WriteUint32(150002)
	failed := serverMessage(SMsgAdminKickAck)
	failed.WriteUint32(0)
	env.dispatch(t, h, ok, failed)

	events := []game.Event{
		{Kind: game.EventNotice, SourceID: 150002, Text: "Kick succeeded."},
		{Kind: game.EventNotice, Text: "Kick failed."},
	}
	if diff := deep.Equal(env.state.Events.Drain(), events); diff != nil {
		t.Errorf("unexpected events: %v", diff)
	}
}
