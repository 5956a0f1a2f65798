package misc

import (
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

var serviceInstance = uuid.New().String()

func init() {
	Log = logrus.New()
	Log.Out = os.Stdout
	Log.Formatter = &logrus.JSONFormatter{}
	Log.AddHook(&DefaultFieldsHook{})
}

func GetServiceName() string {
	name := os.Getenv("SERVICE_NAME")
	if name == "" {
		return "atelier"
	}
	return name
}

func GetServiceInstance() string {
	return serviceInstance
}

type DefaultFieldsHook struct {
}

func (hook *DefaultFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *DefaultFieldsHook) Fire(e *logrus.Entry) error {
	e.Data["serviceName"] = GetServiceName()
	e.Data["serviceInstance"] = GetServiceInstance()
	return nil
}
