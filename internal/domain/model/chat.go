package model

import "strings"

// InboundKind tags the shape of an inbound chat message.
type InboundKind int

const (
	// InboundText is free text, taken as a place name
	InboundText InboundKind = iota
	// InboundCommand is a slash command such as /start
	InboundCommand
)

func (k InboundKind) String() string {
	if k == InboundCommand {
		return "command"
	}
	return "text"
}

// InboundMessage is a chat message reduced to what the bot dispatches on.
type InboundMessage struct {
	ChatID    int64
	MessageID int
	Kind      InboundKind
	// Command is the lower-cased command name without the slash and @bot suffix
	Command string
	// Text is the trimmed message text
	Text string
}

// ParseInbound classifies raw message text. A leading slash makes it a command.
func ParseInbound(chatID int64, messageID int, raw string) InboundMessage {
	text := strings.TrimSpace(raw)
	msg := InboundMessage{ChatID: chatID, MessageID: messageID, Kind: InboundText, Text: text}

	if !strings.HasPrefix(text, "/") || len(text) == 1 {
		return msg
	}

	name := strings.Fields(text[1:])
	if len(name) == 0 {
		return msg
	}
	command, _, _ := strings.Cut(name[0], "@")
	msg.Kind = InboundCommand
	msg.Command = strings.ToLower(command)
	return msg
}

// Reply is an outbound chat message. ReplyToMessageID 0 sends a plain message.
type Reply struct {
	ChatID           int64
	ReplyToMessageID int
	Text             string
}
