package config

import "fmt"

type KeysStruct struct {
	// NotifyQueue is the Redis list drained by the notification worker.
	NotifyQueue string
	// AnnouncementChannel is the Redis Pub/Sub channel for the live
	// announcement feed.
	AnnouncementChannel string
}

// Keys holds every Redis key and channel name the application uses.
var Keys = &KeysStruct{
	NotifyQueue:         "notify_queue",
	AnnouncementChannel: "announcements",
}

// SessionKey returns the Redis key tracking a student's active session.
func (k *KeysStruct) SessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}
