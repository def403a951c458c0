package utils

import (
	"go.uber.org/zap"
)

// InitLogger builds the process logger. Development mode gives readable
// console output; everything else logs JSON.
func InitLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
