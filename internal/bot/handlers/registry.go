package handlers

import (
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler is a route handler together with the command that
// selects it, if any, and its description for the command menu.
type RegisteredHandler struct {
	Route       Route
	Command     string
	Description string
	Handler     UpdateHandler
}

// RegisterAllHandlers initializes and returns the handler for every route.
func RegisterAllHandlers(deps HandlerDeps) map[Route]RegisteredHandler {
	msgs := deps.Config.Messages

	handlers := make(map[Route]RegisteredHandler)

	handlers[RouteStart] = RegisteredHandler{
		Route:       RouteStart,
		Command:     "start",
		Description: msgs.StartDescription,
		Handler:     NewStartHandler(deps),
	}
	handlers[RouteHelp] = RegisteredHandler{
		Route:       RouteHelp,
		Command:     "help",
		Description: msgs.HelpDescription,
		Handler:     NewHelpHandler(deps),
	}
	handlers[RouteSticker] = RegisteredHandler{
		Route:   RouteSticker,
		Handler: NewStickerHandler(deps),
	}
	handlers[RouteOther] = RegisteredHandler{
		Route:   RouteOther,
		Handler: NewOtherContentHandler(deps),
	}
	handlers[RouteUnknownCommand] = RegisteredHandler{
		Route:   RouteUnknownCommand,
		Handler: NewUnknownCommandHandler(deps),
	}

	return handlers
}

// BotCommands lists the command-selected handlers for setMyCommands, in
// routing order.
func BotCommands(handlers map[Route]RegisteredHandler) []models.BotCommand {
	var commands []models.BotCommand
	for _, route := range routeOrder {
		h, ok := handlers[route]
		if !ok || h.Command == "" || h.Description == "" {
			continue
		}
		commands = append(commands, models.BotCommand{Command: h.Command, Description: h.Description})
	}
	return commands
}
