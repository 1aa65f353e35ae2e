package domain

// ChatMessageRole represents the speaker of a conversation turn
type ChatMessageRole string

const (
	// ChatMessageRoleSystem - System instruction, only sent upstream, never stored
	ChatMessageRoleSystem ChatMessageRole = "system"
	// ChatMessageRoleUser - Message typed by the customer
	ChatMessageRoleUser ChatMessageRole = "user"
	// ChatMessageRoleAssistant - Reply produced by the language model
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
)

// ChatMessage is one turn of a conversation
type ChatMessage struct {
	Role    ChatMessageRole `json:"role"`
	Content string          `json:"content"`
}

// Turn is an alias kept for readability in the session code
type Turn = ChatMessage

// UserTurn builds a user turn
func UserTurn(content string) Turn {
	return Turn{Role: ChatMessageRoleUser, Content: content}
}

// AssistantTurn builds an assistant turn
func AssistantTurn(content string) Turn {
	return Turn{Role: ChatMessageRoleAssistant, Content: content}
}

// ChatRoute tells which branch of the router produced a reply
type ChatRoute string

const (
	// ChatRouteNotification - Message was diverted to the support team
	ChatRouteNotification ChatRoute = "notification"
	// ChatRouteIntent - Message matched a configured intent
	ChatRouteIntent ChatRoute = "intent"
	// ChatRouteCompletion - Reply came from the language model
	ChatRouteCompletion ChatRoute = "completion"
)

// Channel identifies where a chat message came from
type Channel string

const (
	// ChannelWeb - Browser widget
	ChannelWeb Channel = "web"
	// ChannelLine - LINE Messaging API
	ChannelLine Channel = "line"
)

// Completion is the gateway result. Fallback is set when the upstream
// answered with an unexpected shape and Text is the generic fallback string.
type Completion struct {
	Text     string
	Fallback bool
}
