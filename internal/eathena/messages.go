// Package eathena implements the handler set for eAthena derived servers:
// a little endian protocol framed over TCP with a per-id length table,
// spread across a login, a character and a map server.
package eathena

import (
	"encoding/binary"

	"github.com/mana/mana-sub005/internal/protocol"
)

// Message ids. CMsg are sent by the client, SMsg by a server.
const (
	CMsgServerVersionRequest  = 0x7530
	SMsgServerVersionResponse = 0x7531

	CMsgLoginRegister = 0x0064
	SMsgLoginData     = 0x0069
	SMsgLoginError    = 0x006a

	CMsgCharServerConnect = 0x0065
	CMsgCharSelect        = 0x0066
	SMsgCharLogin         = 0x006b
	SMsgCharLoginError    = 0x006c
	SMsgCharMapInfo       = 0x0071

	CMsgMapServerConnect  = 0x0072
	SMsgMapLoginSuccess   = 0x0073
	CMsgMapLoaded         = 0x007d
	CMsgClientPing        = 0x007e
	SMsgServerPing        = 0x007f
	SMsgConnectionProblem = 0x0081
	SMsgPlayerWarp        = 0x0091
	SMsgWhoAnswer         = 0x00c2
	CMsgClientQuit        = 0x018a
	SMsgQuitAck           = 0x018b

	SMsgBeingVisible         = 0x0078
	SMsgBeingMove            = 0x007b
	SMsgBeingRemove          = 0x0080
	CMsgPlayerChangeDest     = 0x0085
	SMsgBeingMove2           = 0x0086
	SMsgWalkResponse         = 0x0087
	SMsgPlayerStop           = 0x0088
	CMsgNameRequest          = 0x0094
	SMsgBeingNameResponse    = 0x0095
	SMsgBeingChangeDirection = 0x009c

	CMsgNPCTalk        = 0x0090
	SMsgNPCMessage     = 0x00b4
	SMsgNPCNext        = 0x00b5
	SMsgNPCClose       = 0x00b6
	SMsgNPCChoice      = 0x00b7
	CMsgNPCListChoice  = 0x00b8
	CMsgNPCNextRequest = 0x00b9
	SMsgNPCIntInput    = 0x0142
	CMsgNPCIntResponse = 0x0143
	CMsgNPCClose       = 0x0146
	SMsgNPCStrInput    = 0x01d4
	CMsgNPCStrResponse = 0x01d5

	CMsgChatMessage     = 0x008c
	SMsgBeingChat       = 0x008d
	SMsgPlayerChat      = 0x008e
	CMsgChatWhisper     = 0x0096
	SMsgWhisper         = 0x0097
	SMsgWhisperResponse = 0x0098
	SMsgGMChat          = 0x009a

	SMsgPlayerInventoryAdd    = 0x00a0
	CMsgPlayerInventoryDrop   = 0x00a2
	CMsgPlayerInventoryUse    = 0x00a7
	SMsgItemUseResponse       = 0x00a8
	SMsgPlayerInventoryRemove = 0x00af
	SMsgPlayerInventoryUse    = 0x01c8
	SMsgPlayerInventory       = 0x01ee

	CMsgTradeRequest         = 0x00e4
	SMsgTradeRequest         = 0x00e5
	CMsgTradeResponse        = 0x00e6
	SMsgTradeResponse        = 0x00e7
	CMsgTradeItemAddRequest  = 0x00e8
	SMsgTradeItemAdd         = 0x00e9
	SMsgTradeItemAddResponse = 0x00ea
	CMsgTradeAddComplete     = 0x00eb
	SMsgTradeOK              = 0x00ec
	CMsgTradeCancelRequest   = 0x00ed
	SMsgTradeCancel          = 0x00ee
	CMsgTradeOK              = 0x00ef
	SMsgTradeComplete        = 0x00f0

	CMsgPartyCreate         = 0x00f9
	SMsgPartyCreate         = 0x00fa
	SMsgPartyInfo           = 0x00fb
	CMsgPartyInvite         = 0x00fc
	SMsgPartyInviteResponse = 0x00fd
	SMsgPartyInvited        = 0x00fe
	CMsgPartyReplyInvite    = 0x00ff
	CMsgPartyLeave          = 0x0100
	SMsgPartyLeave          = 0x0105
	CMsgPartyMessage        = 0x0108
	SMsgPartyMessage        = 0x0109

	CMsgAdminAnnounce = 0x0099
	CMsgAdminKick     = 0x00cc
	SMsgAdminKickAck  = 0x00cd
)

// Profile is the wire profile of every eAthena server link.
var Profile = &protocol.Profile{
	Name:       "eathena",
	Order:      binary.LittleEndian,
	Framing:    protocol.StreamFraming,
	Network:    "tcp",
	Lengths:    packetLengths,
	Directions: protocol.LegacyDirections,
	Names:      messageNames,
}

var messageNames = map[uint16]string{
	CMsgServerVersionRequest:  "CMSG_SERVER_VERSION_REQUEST",
	SMsgServerVersionResponse: "SMSG_SERVER_VERSION_RESPONSE",
	CMsgLoginRegister:         "CMSG_LOGIN_REGISTER",
	SMsgLoginData:             "SMSG_LOGIN_DATA",
	SMsgLoginError:            "SMSG_LOGIN_ERROR",
	CMsgCharServerConnect:     "CMSG_CHAR_SERVER_CONNECT",
	CMsgCharSelect:            "CMSG_CHAR_SELECT",
	SMsgCharLogin:             "SMSG_CHAR_LOGIN",
	SMsgCharLoginError:        "SMSG_CHAR_LOGIN_ERROR",
	SMsgCharMapInfo:           "SMSG_CHAR_MAP_INFO",
	CMsgMapServerConnect:      "CMSG_MAP_SERVER_CONNECT",
	SMsgMapLoginSuccess:       "SMSG_MAP_LOGIN_SUCCESS",
	CMsgMapLoaded:             "CMSG_MAP_LOADED",
	CMsgClientPing:            "CMSG_CLIENT_PING",
	SMsgServerPing:            "SMSG_SERVER_PING",
	SMsgConnectionProblem:     "SMSG_CONNECTION_PROBLEM",
	SMsgPlayerWarp:            "SMSG_PLAYER_WARP",
	SMsgWhoAnswer:             "SMSG_WHO_ANSWER",
	CMsgClientQuit:            "CMSG_CLIENT_QUIT",
	SMsgQuitAck:               "SMSG_QUIT_ACK",
	SMsgBeingVisible:          "SMSG_BEING_VISIBLE",
	SMsgBeingMove:             "SMSG_BEING_MOVE",
	SMsgBeingRemove:           "SMSG_BEING_REMOVE",
	CMsgPlayerChangeDest:      "CMSG_PLAYER_CHANGE_DEST",
	SMsgBeingMove2:            "SMSG_BEING_MOVE2",
	SMsgWalkResponse:          "SMSG_WALK_RESPONSE",
	SMsgPlayerStop:            "SMSG_PLAYER_STOP",
	CMsgNameRequest:           "CMSG_NAME_REQUEST",
	SMsgBeingNameResponse:     "SMSG_BEING_NAME_RESPONSE",
	SMsgBeingChangeDirection:  "SMSG_BEING_CHANGE_DIRECTION",
	CMsgNPCTalk:               "CMSG_NPC_TALK",
	SMsgNPCMessage:            "SMSG_NPC_MESSAGE",
	SMsgNPCNext:               "SMSG_NPC_NEXT",
	SMsgNPCClose:              "SMSG_NPC_CLOSE",
	SMsgNPCChoice:             "SMSG_NPC_CHOICE",
	CMsgNPCListChoice:         "CMSG_NPC_LIST_CHOICE",
	CMsgNPCNextRequest:        "CMSG_NPC_NEXT_REQUEST",
	SMsgNPCIntInput:           "SMSG_NPC_INT_INPUT",
	CMsgNPCIntResponse:        "CMSG_NPC_INT_RESPONSE",
	CMsgNPCClose:              "CMSG_NPC_CLOSE",
	SMsgNPCStrInput:           "SMSG_NPC_STR_INPUT",
	CMsgNPCStrResponse:        "CMSG_NPC_STR_RESPONSE",
	CMsgChatMessage:           "CMSG_CHAT_MESSAGE",
	SMsgBeingChat:             "SMSG_BEING_CHAT",
	SMsgPlayerChat:            "SMSG_PLAYER_CHAT",
	CMsgChatWhisper:           "CMSG_CHAT_WHISPER",
	SMsgWhisper:               "SMSG_WHISPER",
	SMsgWhisperResponse:       "SMSG_WHISPER_RESPONSE",
	SMsgGMChat:                "SMSG_GM_CHAT",
	SMsgPlayerInventoryAdd:    "SMSG_PLAYER_INVENTORY_ADD",
	CMsgPlayerInventoryDrop:   "CMSG_PLAYER_INVENTORY_DROP",
	CMsgPlayerInventoryUse:    "CMSG_PLAYER_INVENTORY_USE",
	SMsgItemUseResponse:       "SMSG_ITEM_USE_RESPONSE",
	SMsgPlayerInventoryRemove: "SMSG_PLAYER_INVENTORY_REMOVE",
	SMsgPlayerInventoryUse:    "SMSG_PLAYER_INVENTORY_USE",
	SMsgPlayerInventory:       "SMSG_PLAYER_INVENTORY",
	CMsgTradeRequest:          "CMSG_TRADE_REQUEST",
	SMsgTradeRequest:          "SMSG_TRADE_REQUEST",
	CMsgTradeResponse:         "CMSG_TRADE_RESPONSE",
	SMsgTradeResponse:         "SMSG_TRADE_RESPONSE",
	CMsgTradeItemAddRequest:   "CMSG_TRADE_ITEM_ADD_REQUEST",
	SMsgTradeItemAdd:          "SMSG_TRADE_ITEM_ADD",
	SMsgTradeItemAddResponse:  "SMSG_TRADE_ITEM_ADD_RESPONSE",
	CMsgTradeAddComplete:      "CMSG_TRADE_ADD_COMPLETE",
	SMsgTradeOK:               "SMSG_TRADE_OK",
	CMsgTradeCancelRequest:    "CMSG_TRADE_CANCEL_REQUEST",
	SMsgTradeCancel:           "SMSG_TRADE_CANCEL",
	CMsgTradeOK:               "CMSG_TRADE_OK",
	SMsgTradeComplete:         "SMSG_TRADE_COMPLETE",
	CMsgPartyCreate:           "CMSG_PARTY_CREATE",
	SMsgPartyCreate:           "SMSG_PARTY_CREATE",
	SMsgPartyInfo:             "SMSG_PARTY_INFO",
	CMsgPartyInvite:           "CMSG_PARTY_INVITE",
	SMsgPartyInviteResponse:   "SMSG_PARTY_INVITE_RESPONSE",
	SMsgPartyInvited:          "SMSG_PARTY_INVITED",
	CMsgPartyReplyInvite:      "CMSG_PARTY_REPLY_INVITE",
	CMsgPartyLeave:            "CMSG_PARTY_LEAVE",
	SMsgPartyLeave:            "SMSG_PARTY_LEAVE",
	CMsgPartyMessage:          "CMSG_PARTY_MESSAGE",
	SMsgPartyMessage:          "SMSG_PARTY_MESSAGE",
	CMsgAdminAnnounce:         "CMSG_ADMIN_ANNOUNCE",
	CMsgAdminKick:             "CMSG_ADMIN_KICK",
	SMsgAdminKickAck:          "SMSG_ADMIN_KICK_ACK",
}
