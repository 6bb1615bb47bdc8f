package errors

import (
	"go.uber.org/zap"
)

// LogError records err at error level with its code attached.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil {
		return
	}
	logger.Error(msg, append(errorFields(err), fields...)...)
}

// LogWarn is LogError for failures that do not affect the caller, such as
// side effects that run after a commit.
func LogWarn(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil {
		return
	}
	logger.Warn(msg, append(errorFields(err), fields...)...)
}

func errorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	var coded Error
	if As(err, &coded) {
		fields = append(fields, zap.String("error_code", coded.Code()))
	}
	return fields
}
