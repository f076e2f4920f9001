package protocol

// Type is the wire discriminator carried in every frame's "type" field.
type Type string

const (
	TypeCreate     Type = "create"
	TypeJoin       Type = "join"
	TypeUsers      Type = "users"
	TypeInit       Type = "init"
	TypeDraw       Type = "draw"
	TypeStrokeEnd  Type = "stroke_end"
	TypeUndo       Type = "undo"
	TypeRedo       Type = "redo"
	TypeClearBoard Type = "clear_board"
	TypeCode       Type = "code"
	TypeLanguage   Type = "language"
	TypeChat       Type = "chat"
	TypeOutput     Type = "output"
	TypeInvite     Type = "invite"
	TypeTerminate  Type = "terminate"
	TypeAdmin      Type = "admin"
	TypeError      Type = "error"
)

// InviteAll addresses an invite to every member of the room.
const InviteAll = "ALL"
