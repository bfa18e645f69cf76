// Package manaserv implements the handler set for manaserv servers: a big
// endian protocol where every transport packet carries exactly one message,
// spread across an account, a game and a chat server.
package manaserv

import (
	"encoding/binary"

	"github.com/mana/mana-sub005/internal/protocol"
)

// Message ids. The two letter prefix names the sender and the receiver:
// P is the player's client, A the account server, G the game server and C
// the chat server.
const (
	PAMsgLogin              = 0x0010
	APMsgLoginResponse      = 0x0012
	PAMsgLogout             = 0x0013
	APMsgLogoutResponse     = 0x0014
	APMsgCharInfo           = 0x0024
	PAMsgCharSelect         = 0x0026
	APMsgCharSelectResponse = 0x0027

	PGMsgConnect            = 0x0050
	GPMsgConnectResponse    = 0x0051
	PCMsgConnect            = 0x0053
	CPMsgConnectResponse    = 0x0054
	PGMsgDisconnect         = 0x0060
	GPMsgDisconnectResponse = 0x0061

	GPMsgPlayerMapChange = 0x0100
	GPMsgBeingEnter      = 0x0200
	GPMsgBeingLeave      = 0x0201
	PGMsgWalk            = 0x0260
	GPMsgBeingsMove      = 0x0280
	PGMsgSay             = 0x02A0
	GPMsgSay             = 0x02A1

	GPMsgNPCChoice   = 0x02B0
	GPMsgNPCMessage  = 0x02B1
	PGMsgNPCTalk     = 0x02B2
	PGMsgNPCTalkNext = 0x02B3
	PGMsgNPCSelect   = 0x02B4
	GPMsgNPCError    = 0x02B8
	GPMsgNPCClose    = 0x02B9
	PGMsgNPCNumber   = 0x02D3
	PGMsgNPCString   = 0x02D4
	GPMsgNPCNumber   = 0x02D5
	GPMsgNPCString   = 0x02D6

	PCMsgPrivMsg      = 0x0422
	CPMsgPrivMsg      = 0x0423
	CPMsgAnnouncement = 0x0424
)

// Profile is the wire profile of every manaserv link.
var Profile = &protocol.Profile{
	Name:       "manaserv",
	Order:      binary.BigEndian,
	Framing:    protocol.PacketFraming,
	Network:    "udp",
	Directions: protocol.ManaservDirections,
	Names:      messageNames,
}

var messageNames = map[uint16]string{
	PAMsgLogin:              "PAMSG_LOGIN",
	APMsgLoginResponse:      "APMSG_LOGIN_RESPONSE",
	PAMsgLogout:             "PAMSG_LOGOUT",
	APMsgLogoutResponse:     "APMSG_LOGOUT_RESPONSE",
	APMsgCharInfo:           "APMSG_CHAR_INFO",
	PAMsgCharSelect:         "PAMSG_CHAR_SELECT",
	APMsgCharSelectResponse: "APMSG_CHAR_SELECT_RESPONSE",
	PGMsgConnect:            "PGMSG_CONNECT",
	GPMsgConnectResponse:    "GPMSG_CONNECT_RESPONSE",
	PCMsgConnect:            "PCMSG_CONNECT",
	CPMsgConnectResponse:    "CPMSG_CONNECT_RESPONSE",
	PGMsgDisconnect:         "PGMSG_DISCONNECT",
	GPMsgDisconnectResponse: "GPMSG_DISCONNECT_RESPONSE",
	GPMsgPlayerMapChange:    "GPMSG_PLAYER_MAP_CHANGE",
	GPMsgBeingEnter:         "GPMSG_BEING_ENTER",
	GPMsgBeingLeave:         "GPMSG_BEING_LEAVE",
	PGMsgWalk:               "PGMSG_WALK",
	GPMsgBeingsMove:         "GPMSG_BEINGS_MOVE",
	PGMsgSay:                "PGMSG_SAY",
	GPMsgSay:                "GPMSG_SAY",
	GPMsgNPCChoice:          "GPMSG_NPC_CHOICE",
	GPMsgNPCMessage:         "GPMSG_NPC_MESSAGE",
	PGMsgNPCTalk:            "PGMSG_NPC_TALK",
	PGMsgNPCTalkNext:        "PGMSG_NPC_TALK_NEXT",
	PGMsgNPCSelect:          "PGMSG_NPC_SELECT",
	GPMsgNPCError:           "GPMSG_NPC_ERROR",
	GPMsgNPCClose:           "GPMSG_NPC_CLOSE",
	PGMsgNPCNumber:          "PGMSG_NPC_NUMBER",
	PGMsgNPCString:          "PGMSG_NPC_STRING",
	GPMsgNPCNumber:          "GPMSG_NPC_NUMBER",
	GPMsgNPCString:          "GPMSG_NPC_STRING",
	PCMsgPrivMsg:            "PCMSG_PRIVMSG",
	CPMsgPrivMsg:            "CPMSG_PRIVMSG",
	CPMsgAnnouncement:       "CPMSG_ANNOUNCEMENT",
}

// Error codes shared by every response message.
const (
	errOK                   = 0
	errFailure              = 1
	errNoLogin              = 2
	errNoCharacterSelected  = 3
	errInsufficientRights   = 4
	errInvalidArgument      = 5
	errServerFull           = 8
	errTimeOut              = 9
	errLimitReached         = 10
	errAdministrativeLogoff = 11

	loginInvalidVersion = 0x40
	loginBanned         = 0x41
	loginInvalidTime    = 0x50
)
