package league

import "github.com/uber-go/zap"

var log = zap.New(zap.NewTextEncoder())

// SetLogger replaces the package logger, usually with the one configured
// by the binary.
func SetLogger(l zap.Logger) {
	log = l
}
