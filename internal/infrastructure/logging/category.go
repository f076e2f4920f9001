package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Redis           Category = "Redis"
	RabbitMQ        Category = "RabbitMQ"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
	Websocket       Category = "Websocket"
	Room            Category = "Room"
	Executor        Category = "Executor"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Websocket
	Upgrade    SubCategory = "Upgrade"
	ReadFrame  SubCategory = "ReadFrame"
	WriteFrame SubCategory = "WriteFrame"
	SlowClient SubCategory = "SlowClient"

	// Room
	Lifecycle SubCategory = "Lifecycle"
	Presence  SubCategory = "Presence"
	Dispatch  SubCategory = "Dispatch"

	// RabbitMQ
	Publish SubCategory = "Publish"
	Consume SubCategory = "Consume"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	HostIp       ExtraKey = "HostIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RequestID    ExtraKey = "RequestID"
	ErrorMessage ExtraKey = "ErrorMessage"
	RoomID       ExtraKey = "RoomID"
	SessionID    ExtraKey = "SessionID"
	MessageType  ExtraKey = "MessageType"
	Identity     ExtraKey = "Identity"
	Language     ExtraKey = "Language"
	EventType    ExtraKey = "EventType"
)
