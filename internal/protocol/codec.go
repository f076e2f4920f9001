package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformed   = errors.New("malformed frame")
	ErrUnknownType = errors.New("unknown message type")
)

type decoder func(data []byte) (Message, error)

var decoders = map[Type]decoder{
	TypeCreate:     decodeAs[Create],
	TypeJoin:       decodeAs[Join],
	TypeUsers:      decodeAs[Users],
	TypeInit:       decodeAs[Init],
	TypeDraw:       decodeAs[Draw],
	TypeStrokeEnd:  decodeAs[StrokeEnd],
	TypeUndo:       decodeAs[Undo],
	TypeRedo:       decodeAs[Redo],
	TypeClearBoard: decodeAs[ClearBoard],
	TypeCode:       decodeAs[Code],
	TypeLanguage:   decodeAs[Language],
	TypeChat:       decodeAs[Chat],
	TypeOutput:     decodeAs[Output],
	TypeInvite:     decodeAs[Invite],
	TypeTerminate:  decodeAs[Terminate],
	TypeAdmin:      decodeAs[Admin],
	TypeError:      decodeAs[ErrorNotice],
}

func decodeAs[T Message](data []byte) (Message, error) {
	var m T
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Decode reads the frame's type tag and decodes the rest of the frame into
// the matching concrete message. Unknown fields are ignored.
func Decode(data []byte) (Message, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	decode, ok := decoders[head.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, head.Type)
	}

	msg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, head.Type, err)
	}
	return msg, nil
}

// Encode renders m as a single JSON object with its type tag.
func Encode(m Message) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	tag, err := json.Marshal(m.Type())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag

	return json.Marshal(fields)
}
