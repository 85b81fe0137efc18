package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/portgate/portgate"
	"github.com/portgate/portgate/handler"
	"github.com/portgate/portgate/net"
	"github.com/portgate/portgate/socket"
	"github.com/sirupsen/logrus"
)

const (
	HandlerNameEcho = "echo"
	HandlerNameSink = "sink"
)

type Instance struct {
	listeners []portgate.Listener
	handler   portgate.Handler
	await     sync.WaitGroup
}

func NewInstance() *Instance {
	return &Instance{
		await: sync.WaitGroup{},
	}
}

func (i *Instance) Init(runCtx context.Context) error {
	var serverConfig ServerConfig
	if err := portgate.ConfigerUnmarshal(runCtx, configPathServer, &serverConfig); err != nil {
		return fmt.Errorf("inst: unmarshal server config. %w", err)
	}
	if serverConfig.Bind == "" {
		serverConfig.Bind = portgate.DefaultAddress
	}
	if serverConfig.Port <= 0 {
		serverConfig.Port = portgate.DefaultPort
	}
	if err := i.initHandler(serverConfig); err != nil {
		return fmt.Errorf("inst: %w", err)
	}
	if err := i.initTcpListener(runCtx, serverConfig); err != nil {
		return err
	}
	if len(i.listeners) == 0 {
		return fmt.Errorf("inst: no available listeners")
	}
	return nil
}

func (i *Instance) Serve(runCtx context.Context) error {
	servCtx, servCancel := context.WithCancel(runCtx)
	defer servCancel()
	servErrors := make(chan error, len(i.listeners))
	for _, srv := range i.listeners {
		i.await.Add(1)
		go func(lis portgate.Listener) {
			if err := lis.Listen(servCtx, i.handler); err == nil || errors.Is(err, context.Canceled) {
				servErrors <- nil
			} else {
				servErrors <- err
			}
			i.await.Done()
		}(srv)
	}
	select {
	case err := <-servErrors:
		servCancel()
		return i.term(err)
	case <-runCtx.Done():
		servCancel()
		return i.term(nil)
	}
}

// Close releases bound sockets without serving, for verify-only runs.
func (i *Instance) Close() {
	for _, lis := range i.listeners {
		if c, ok := lis.(io.Closer); ok {
			_ = c.Close()
		}
	}
}

func (i *Instance) term(err error) error {
	i.await.Wait()
	return err
}

func (i *Instance) initTcpListener(runCtx context.Context, serverConfig ServerConfig) error {
	var acceptConfig AcceptConfig
	if err := portgate.ConfigerUnmarshal(runCtx, configPathServerAccept, &acceptConfig); err != nil {
		return fmt.Errorf("inst: unmarshal accept config. %w", err)
	}
	tcpConfig := TcpConfig{
		NoDelay:      true,
		KeepAliveSec: 10,
		ReadBuffer:   1024,
		WriteBuffer:  1024,
	}
	if err := portgate.ConfigerUnmarshal(runCtx, configPathServerTcp, &tcpConfig); err != nil {
		return fmt.Errorf("inst: unmarshal tcp config. %w", err)
	}
	lis := socket.NewTcpListenerWith(portgate.ListenerOptions{
		Address:           serverConfig.Bind,
		Port:              serverConfig.Port,
		Backlog:           acceptConfig.Backlog,
		ReuseAddress:      acceptConfig.ReuseAddress,
		MaxAcceptDelay:    time.Duration(acceptConfig.MaxRetryDelayMs) * time.Millisecond,
		AcceptRetryBudget: acceptConfig.RetryBudget,
		MaxConnsPerSource: acceptConfig.MaxConnsPerSource,
		Verbose:           serverConfig.Verbose,
	}, net.TcpOptions{
		NoDelay:     tcpConfig.NoDelay,
		KeepAlive:   time.Duration(tcpConfig.KeepAliveSec) * time.Second,
		Linger:      tcpConfig.Linger,
		ReadBuffer:  tcpConfig.ReadBuffer,
		WriteBuffer: tcpConfig.WriteBuffer,
	})
	i.listeners = append(i.listeners, lis)
	return lis.Init(runCtx)
}

func (i *Instance) initHandler(serverConfig ServerConfig) error {
	name := serverConfig.Handler
	if name == "" {
		name = HandlerNameSink
	}
	switch strings.ToLower(name) {
	case HandlerNameEcho:
		i.handler = handler.NewEcho()
	case HandlerNameSink:
		i.handler = handler.NewSink()
	default:
		return fmt.Errorf("invalid handler: %s", name)
	}
	logrus.Infof("inst: handler: %s", name)
	return nil
}
