package training

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid training configuration")
	ErrUnknownRepartition = errors.New("unknown repartition setting")
)
