package storefront

import "github.com/sirupsen/logrus"

type StorefrontLogHook struct{}

func (h *StorefrontLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Storefront: " + entry.Message
	return nil
}

func (h *StorefrontLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
