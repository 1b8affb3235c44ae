package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sharetube/watchroom/internal/service/room"
)

type EmptyStruct struct{}

func (es *EmptyStruct) UnmarshalJSON([]byte) error {
	return nil
}

func (c controller) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyStruct) error {
	return nil
}

type InitInput struct {
	Room   string `json:"room" validate:"required,max=128"`
	Client string `json:"client" validate:"required,max=128"`
}

func (c controller) handleInit(ctx context.Context, conn *websocket.Conn, input InitInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidation, validationErrors)
	}

	sess, err := c.getSessionFromCtx(ctx)
	if err != nil {
		return err
	}

	// bound before joining so disconnect always cleans up a partial join
	if err := sess.Bind(input.Room, input.Client); err != nil {
		return err
	}

	initResp, err := c.roomService.Init(ctx, &room.InitParams{
		Conn:     conn,
		RoomId:   input.Room,
		ClientId: input.Client,
	})
	if err != nil {
		return fmt.Errorf("failed to init: %w", err)
	}

	c.logger.InfoContext(ctx, "client joined",
		"room_id", input.Room,
		"client_id", input.Client,
		"room_created", initResp.IsNew,
	)

	return nil
}

func (c controller) handleVideo(ctx context.Context, conn *websocket.Conn, input string) error {
	if validationErrors, ok := c.validate.ValidateVar("video", input, "max=256"); !ok {
		return fmt.Errorf("%w: %v", ErrValidation, validationErrors)
	}

	roomId, _, err := c.getBindingFromCtx(ctx)
	if err != nil {
		return err
	}

	if err := c.roomService.UpdateVideo(ctx, &room.UpdateVideoParams{
		SenderConn: conn,
		RoomId:     roomId,
		VideoId:    input,
	}); err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	return nil
}

func (c controller) handlePlay(ctx context.Context, conn *websocket.Conn, _ EmptyStruct) error {
	roomId, _, err := c.getBindingFromCtx(ctx)
	if err != nil {
		return err
	}

	if err := c.roomService.Play(ctx, &room.UpdatePlayerStateParams{
		SenderConn: conn,
		RoomId:     roomId,
	}); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	return nil
}

func (c controller) handlePause(ctx context.Context, conn *websocket.Conn, _ EmptyStruct) error {
	roomId, _, err := c.getBindingFromCtx(ctx)
	if err != nil {
		return err
	}

	if err := c.roomService.Pause(ctx, &room.UpdatePlayerStateParams{
		SenderConn: conn,
		RoomId:     roomId,
	}); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}

	return nil
}

func (c controller) handleSeek(ctx context.Context, conn *websocket.Conn, input float64) error {
	if validationErrors, ok := c.validate.ValidateVar("seek", input, "gte=0"); !ok {
		return fmt.Errorf("%w: %v", ErrValidation, validationErrors)
	}

	roomId, _, err := c.getBindingFromCtx(ctx)
	if err != nil {
		return err
	}

	if err := c.roomService.Seek(ctx, &room.SeekParams{
		SenderConn: conn,
		RoomId:     roomId,
		Position:   input,
	}); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	return nil
}
