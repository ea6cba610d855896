package notification

// QueuedMessage is the JSON payload pushed onto the Redis notify queue by
// request handlers and drained by the notification worker.
type QueuedMessage struct {
	Tokens []string `json:"tokens"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
}
