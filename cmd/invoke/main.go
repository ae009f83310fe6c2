package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"stock-checker-api/internal/cli"
)

func main() {
	if err := cli.NewInvokeCommand().Execute(); err != nil {
		logrus.WithError(err).Error("Invoke failed")
		os.Exit(1)
	}
}
