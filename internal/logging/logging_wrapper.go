package logging

import (
	"github.com/sirupsen/logrus"
)

// LoggingWrapper runs handler as the console command loggingName and writes
// one summary line with everything the handler added to its LogData.
func LoggingWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(*LogData) error,
) func() error {
	return func() error {
		logData := NewLogData(log)
		log.Debugf("Command.%v.Start", loggingName)

		endTimer := logData.AddTiming("duration_ms")
		err := handler(logData)
		endTimer()

		if err != nil {
			logData.Log().WithError(err).Warnf("Command.%v.Error", loggingName)
			return err
		}

		logData.Log().Infof("Command.%v.Complete", loggingName)
		return nil
	}
}
