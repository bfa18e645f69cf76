package eathena

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/mana/mana-sub005/internal/npc"
	"github.com/mana/mana-sub005/internal/protocol"
)

func npcMessage(npcID uint32, text string) *protocol.MessageOut {
	m := variableMessage(SMsgNPCMessage)
	m.WriteUint32(npcID)
	m.WriteString(text, len(text)+1)
	m.FixLength()
	return m
}

func npcIDMessage(id uint16, npcID uint32) *protocol.MessageOut {
	m := serverMessage(id)
	m.WriteUint32(npcID)
	return m
}

func TestNPCHandler_TalkMessageNext(t *testing.T) {
	env := newTestEnv()
	h := NewNPCHandler(env.state, env.sent)
	dialog := h.Dialog

	if err := dialog.Talk(42); err != nil {
		t.Fatalf("Talk() returned an unexpected error: %v", err)
	}
	want := []byte{0x90, 0x00, 42, 0x00, 0x00, 0x00, 0x00}
	if diff := deep.Equal(env.sent.last(t).Bytes(), want); diff != nil {
		t.Errorf("unexpected CMSG_NPC_TALK: %v", diff)
	}

	env.dispatch(t, h, npcMessage(42, "Hello"))
	if dialog.State() != npc.Waiting {
		t.Errorf("expected %v after the message, got %v", npc.Waiting, dialog.State())
	}
	if dialog.Text() != "Hello" {
		t.Errorf("expected text %q, got %q", "Hello", dialog.Text())
	}

	env.dispatch(t, h, npcIDMessage(SMsgNPCNext, 42))
	if dialog.State() != npc.Next {
		t.Errorf("expected %v, got %v", npc.Next, dialog.State())
	}

	if err := dialog.Next(); err != nil {
		t.Fatalf("Next() returned an unexpected error: %v", err)
	}
	env.dispatch(t, h, npcIDMessage(SMsgNPCClose, 42))
	if err := dialog.Close(); err != nil {
		t.Fatalf("Close() returned an unexpected error: %v", err)
	}

	wantIDs := []uint16{CMsgNPCTalk, CMsgNPCNextRequest, CMsgNPCClose}
	if diff := deep.Equal(env.sent.ids(), wantIDs); diff != nil {
		t.Errorf("unexpected messages sent: %v", diff)
	}
	if dialog.Active() {
		t.Errorf("expected the dialog to be closed")
	}
}

func TestNPCHandler_OtherNPCIsClosed(t *testing.T) {
	env := newTestEnv()
	h := NewNPCHandler(env.state, env.sent)
	_ = h.Dialog.Talk(42)

	env.dispatch(t, h, npcMessage(43, "Psst"))

	if h.Dialog.NPC() != 42 || h.Dialog.Text() != "" {
		t.Errorf("the open dialog must not change, got NPC %d with %q", h.Dialog.NPC(), h.Dialog.Text())
	}
	want := []byte{0x46, 0x01, 43, 0x00, 0x00, 0x00}
	if diff := deep.Equal(env.sent.last(t).Bytes(), want); diff != nil {
		t.Errorf("unexpected CMSG_NPC_CLOSE: %v", diff)
	}
}

func TestNPCHandler_Inputs(t *testing.T) {
	env := newTestEnv()
	h := NewNPCHandler(env.state, env.sent)

	choice := variableMessage(SMsgNPCChoice)
	choice.WriteUint32(9)
	choice.WriteString("Yes:No:", 8)
	choice.FixLength()
	env.dispatch(t, h, choice)

	if h.Dialog.State() != npc.ListChoice {
		t.Fatalf("expected %v, got %v", npc.ListChoice, h.Dialog.State())
	}
	if diff := deep.Equal(h.Dialog.Choices(), []string{"Yes", "No"}); diff != nil {
		t.Errorf("unexpected choices: %v", diff)
	}
	_ = h.Dialog.Choose(1)
	if diff := deep.Equal(env.sent.last(t).Bytes(), []byte{0xb8, 0x00, 9, 0, 0, 0, 2}); diff != nil {
		t.Errorf("unexpected CMSG_NPC_LIST_CHOICE: %v", diff)
	}

	env.dispatch(t, h, npcIDMessage(SMsgNPCIntInput, 9))
	_ = h.Dialog.SubmitInteger(-5)
	if diff := deep.Equal(env.sent.last(t).Bytes(), []byte{0x43, 0x01, 9, 0, 0, 0, 0, 0, 0, 0}); diff != nil {
		t.Errorf("unexpected CMSG_NPC_INT_RESPONSE: %v", diff)
	}

	env.dispatch(t, h, npcIDMessage(SMsgNPCStrInput, 9))
	_ = h.Dialog.SubmitString("ok")
	want := []byte{0xd5, 0x01, 11, 0x00, 9, 0, 0, 0, 'o', 'k', 0}
	if diff := deep.Equal(env.sent.last(t).Bytes(), want); diff != nil {
		t.Errorf("unexpected CMSG_NPC_STR_RESPONSE: %v", diff)
	}
}
