package room

import "errors"

var ErrInvalidType = errors.New("invalid room type")

type Type string

const (
	TypeStandard  Type = "Standard"
	TypeBoardroom Type = "Boardroom"
	TypeTraining  Type = "Training"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeStandard, TypeBoardroom, TypeTraining:
		return true
	default:
		return false
	}
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}
