package helpers

import (
	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/config"
)

func HandleCloseConnections() {
	appCnf := config.GetConfig()
	if appCnf == nil {
		return
	}

	// handle to close DB connection
	if appCnf.DB != nil {
		if db, err := appCnf.DB.DB(); err == nil {
			_ = db.Close()
		}
	}

	// close redis
	if appCnf.RDS != nil {
		_ = appCnf.RDS.Close()
	}

	// close nats
	if appCnf.NatsConn != nil && !appCnf.NatsConn.IsClosed() {
		appCnf.NatsConn.Close()
	}

	// close logger
	logrus.Exit(0)
}
