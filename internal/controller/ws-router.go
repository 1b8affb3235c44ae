package controller

import (
	"github.com/sharetube/watchroom/internal/service/room"
	"github.com/sharetube/watchroom/pkg/wsrouter"
)

const (
	MessageTypeInit  = "init"
	MessageTypeAlive = "alive"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdWSMw(), c.bindingWSMw(), c.loggerWSMw())
	mux.OnError(c.handleWSError)

	// session
	wsrouter.Handle(mux, MessageTypeInit, c.handleInit)
	wsrouter.Handle(mux, MessageTypeAlive, c.handleAlive)

	// player
	wsrouter.Handle(mux, room.MessageTypeVideo, c.handleVideo)
	wsrouter.Handle(mux, room.MessageTypePlay, c.handlePlay)
	wsrouter.Handle(mux, room.MessageTypePause, c.handlePause)
	wsrouter.Handle(mux, room.MessageTypeSeek, c.handleSeek)

	return mux
}
