package data

import (
	"time"

	"gorm.io/gorm"
)

// ChatLine is one line of chat seen by the client.
type ChatLine struct {
	ID uint64 `gorm:"primaryKey"`
	// Channel is the kind of chat: chat, whisper, party, announcement.
	Channel string `gorm:"index; not null"`
	Sender  string
	Message string `gorm:"not null"`
	// Server identifies the world the line was seen on.
	Server     string `gorm:"index"`
	ReceivedAt time.Time
}

// ChatLog appends chat lines to the database.
type ChatLog struct {
	db     *gorm.DB
	server string
	now    func() time.Time
}

// NewChatLog returns a log that tags every line with server.
func NewChatLog(db *gorm.DB, server string) *ChatLog {
	return &ChatLog{db: db, server: server, now: time.Now}
}

func (l *ChatLog) Append(channel, sender, message string) error {
	return l.db.Create(&ChatLine{
		Channel:    channel,
		Sender:     sender,
		Message:    message,
		Server:     l.server,
		ReceivedAt: l.now(),
	}).Error
}

// Recent returns up to limit of the newest lines of this server, oldest
// first.
func (l *ChatLog) Recent(limit int) ([]ChatLine, error) {
	var lines []ChatLine
	err := l.db.Where("server = ?", l.server).Order("id desc").Limit(limit).Find(&lines).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}

// FindBySender returns every line of this server sent by sender, oldest first.
func (l *ChatLog) FindBySender(sender string) ([]ChatLine, error) {
	var lines []ChatLine
	err := l.db.Where("server = ? AND sender = ?", l.server, sender).Order("id").Find(&lines).Error
	return lines, err
}
