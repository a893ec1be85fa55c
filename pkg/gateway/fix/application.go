// Package fixgateway accepts FIX 4.4 sessions and bridges
// NewOrderSingle / OrderCancelRequest flows onto the matching engine.
package fixgateway

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/quickfixgo/tag"
)

const queueSize = 1_000_000

// Application implements the quickfix.Application interface
type Application struct {
	*quickfix.MessageRouter
	gateway    *Gateway
	quickEvent chan bool
	dispatcher chan *inboundMsg
}

type inboundMsg struct {
	msg       *quickfix.Message
	sessionID quickfix.SessionID
}

func newApplication(gw *Gateway) *Application {
	app := &Application{
		MessageRouter: quickfix.NewMessageRouter(),
		gateway:       gw,
		quickEvent:    make(chan bool, 1),
		dispatcher:    make(chan *inboundMsg, queueSize),
	}

	app.AddRoute(newordersingle.Route(gw.onNewOrderSingle))
	app.AddRoute(ordercancelrequest.Route(gw.onOrderCancelRequest))

	go app.runDispatcher()

	return app
}

func startApp(configFilepath string, gw *Gateway) (*Application, error) {
	cfg, err := os.Open(configFilepath)
	if err != nil {
		return nil, fmt.Errorf("error opening %v, %v", configFilepath, err)
	}
	defer cfg.Close() // nolint

	stringData, readErr := io.ReadAll(cfg)
	if readErr != nil {
		return nil, fmt.Errorf("error reading cfg: %s,", readErr)
	}

	appSettings, err := quickfix.ParseSettings(bytes.NewReader(stringData))
	if err != nil {
		return nil, fmt.Errorf("error reading cfg: %s,", err)
	}

	app := newApplication(gw)
	logFactory, _ := file.NewLogFactory(appSettings)
	acceptor, err := quickfix.NewAcceptor(app, quickfix.NewMemoryStoreFactory(), appSettings, logFactory)
	if err != nil {
		return nil, fmt.Errorf("unable to create acceptor: %s", err)
	}

	err = acceptor.Start()
	if err != nil {
		return nil, fmt.Errorf("unable to start FIX acceptor: %s", err)
	}

	go func() {
		<-app.quickEvent
		acceptor.Stop()
	}()

	return app, nil
}

func stopApp(a *Application) {
	select {
	case a.quickEvent <- true:
	default:
	}
}

// OnCreate implemented as part of Application interface
func (a Application) OnCreate(sessionID quickfix.SessionID) {}

// OnLogon implemented as part of Application interface
func (a Application) OnLogon(sessionID quickfix.SessionID) {}

// OnLogout implemented as part of Application interface
func (a Application) OnLogout(sessionID quickfix.SessionID) {}

// ToAdmin implemented as part of Application interface
func (a Application) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}

// ToApp implemented as part of Application interface
func (a Application) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}

// FromAdmin implemented as part of Application interface
func (a Application) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

// FromApp queues incoming application messages for the dispatcher so
// session threads never block on matching.
func (a *Application) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) (reject quickfix.MessageRejectError) {
	a.dispatcher <- &inboundMsg{msg, sessionID}
	return nil
}

func (a *Application) runDispatcher() {
	for msg := range a.dispatcher {
		if err := a.Route(msg.msg, msg.sessionID); err != nil {
			msgType, _ := msg.msg.Header.GetString(tag.MsgType)
			log.Println("Route error", msgType, err)
		}
	}
}
