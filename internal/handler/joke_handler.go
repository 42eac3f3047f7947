package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"popupkit/jokebox/internal/model"
	"popupkit/jokebox/internal/service"
	"popupkit/jokebox/pkg/response"
)

// User-facing messages. Every failure to obtain jokes collapses into MsgJokesUnavailable.
const (
	MsgJokesUnavailable = "Could not load jokes (offline?)"
	MsgNoJokesForMode   = "No jokes found for this mode."
	MsgEmptyJoke        = "Empty joke."
)

type JokeHandler struct {
	jokeProvider service.JokeProvider
}

func NewJokeHandler(jokeProvider service.JokeProvider) *JokeHandler {
	return &JokeHandler{jokeProvider: jokeProvider}
}

type JokeResponse struct {
	Joke *model.Joke `json:"joke"`
	Text string      `json:"text"`
}

// Random returns one joke for ?mode=safe|unsafe|mixed (default mixed).
func (h *JokeHandler) Random(c *gin.Context) {
	mode, ok := model.ParseMode(c.Query("mode"))
	if !ok {
		response.BadRequest(c, "mode must be one of safe, unsafe, mixed")
		return
	}

	joke, err := h.jokeProvider.GetJoke(c.Request.Context(), mode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJokeNotFound):
			response.NotFound(c, MsgNoJokesForMode)
		default:
			_ = c.Error(err)
			response.ServiceUnavailable(c, MsgJokesUnavailable)
		}
		return
	}

	response.Success(c, JokeResponse{Joke: joke, Text: JokeText(joke)})
}

// JokeText is the display text for a joke, never empty.
func JokeText(joke *model.Joke) string {
	if text := model.FormatJoke(joke); text != "" {
		return text
	}
	return MsgEmptyJoke
}
