// Package widget implements the chat widget controller of the documentation
// assistant: it turns user commands into backend requests and renders the
// outcome through injected UI ports.
package widget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Texts shown by the widget
const (
	LoadingText = "Recherche en cours..."

	StatsFormat       = "%d sections de documentation disponibles"
	StatsErrorText    = "Erreur lors du chargement des statistiques"
	StatsNetworkText  = "Impossible de charger les statistiques"
	ConnectionErrText = "Erreur de connexion au serveur"

	AskErrorPrefix  = "Erreur: "
	AskErrorDefault = "Une erreur inattendue est survenue"

	ReloadingLabel   = "Rechargement..."
	ReloadStartText  = "Rechargement de la documentation..."
	ReloadDoneFormat = "Documentation rechargée : %d sections disponibles"
	ReloadDoneText   = "Documentation rechargée"
	ReloadFailedText = "Erreur lors du rechargement de la documentation"
)

var errNoResponse = errors.New("backend returned no response")

// Command is a user action handled by Dispatch
type Command interface {
	command()
}

// Initialize loads the statistics shown when the widget opens
type Initialize struct{}

// SubmitQuestion sends the question currently typed in the input
type SubmitQuestion struct{}

// ReloadDocuments asks the backend to relearn the documentation
type ReloadDocuments struct{}

func (Initialize) command()      {}
func (SubmitQuestion) command()  {}
func (ReloadDocuments) command() {}

// Controller drives the chat widget.
//
// Controls are disabled while a request is in flight, which is what keeps a
// second question (or a second reload) from being issued. The busy flags
// cover the window between a key press and the disablement when commands
// run on another goroutine.
type Controller struct {
	ports   Ports
	backend Backend
	logger  *zap.Logger
	newID   func() string

	asking    atomic.Bool
	reloading atomic.Bool
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used for command outcomes
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator replaces the correlation id generator
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// New creates a controller driving ports and talking to backend
func New(ports Ports, backend Backend, opts ...Option) *Controller {
	c := &Controller{
		ports:   ports,
		backend: backend,
		logger:  zap.NewNop(),
		newID:   timeID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// timeID returns a unique id ordered by creation time
func timeID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return id.String()
}

// Dispatch runs the handler of cmd
func (c *Controller) Dispatch(ctx context.Context, cmd Command) {
	switch cmd.(type) {
	case Initialize:
		c.Initialize(ctx)
	case SubmitQuestion:
		c.SendQuestion(ctx)
	case ReloadDocuments:
		c.ReloadDocuments(ctx)
	default:
		c.logger.Warn("Unknown widget command", zap.String("command", fmt.Sprintf("%T", cmd)))
	}
}

// Initialize fetches the statistics and shows them
func (c *Controller) Initialize(ctx context.Context) {
	resp, err := c.backend.Stats(ctx)
	if err == nil && resp == nil {
		err = errNoResponse
	}
	switch {
	case err != nil:
		c.logger.Debug("Stats request failed", zap.Error(err))
		c.ports.Stats.SetText(StatsNetworkText)
	case !resp.Success || resp.SectionsCount == nil:
		c.logger.Debug("Stats rejected by backend", zap.String("error", resp.Error))
		c.ports.Stats.SetText(StatsErrorText)
	default:
		c.updateStats(*resp.SectionsCount)
	}
}

// SendQuestion submits the question typed in the input.
// Blank input is ignored and issues no request.
func (c *Controller) SendQuestion(ctx context.Context) {
	question := strings.TrimSpace(c.ports.Input.Value())
	if question == "" {
		return
	}
	if !c.asking.CompareAndSwap(false, true) {
		c.logger.Debug("Question ignored, another one is in flight")
		return
	}
	defer c.asking.Store(false)

	c.addMessage(KindUser, question, "")

	c.ports.Input.Clear()
	c.ports.Input.SetEnabled(false)
	c.ports.Send.SetEnabled(false)
	defer func() {
		c.ports.Input.SetEnabled(true)
		c.ports.Send.SetEnabled(true)
		c.ports.Input.Focus()
	}()

	loadingID := c.newID()
	c.addMessage(KindAssistant, LoadingText, loadingID)

	start := time.Now()
	resp, err := c.backend.Ask(ctx, question)
	c.removeMessage(loadingID)
	if err == nil && resp == nil {
		err = errNoResponse
	}

	if err != nil {
		c.logger.Warn("Ask request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		c.addMessage(KindSystem, ConnectionErrText, "")
		return
	}

	if !resp.Success {
		reason := resp.Error
		if reason == "" {
			reason = AskErrorDefault
		}
		c.logger.Debug("Question rejected by backend", zap.String("error", resp.Error))
		c.addMessage(KindSystem, AskErrorPrefix+reason, "")
		return
	}

	c.logger.Debug("Question answered", zap.Duration("elapsed", time.Since(start)))
	c.addMessage(KindAssistant, resp.Answer, "")
}

// ReloadDocuments asks the backend to relearn the documentation
func (c *Controller) ReloadDocuments(ctx context.Context) {
	if !c.reloading.CompareAndSwap(false, true) {
		c.logger.Debug("Reload ignored, another one is in flight")
		return
	}
	defer c.reloading.Store(false)

	label := c.ports.Reload.Label()
	c.ports.Reload.SetEnabled(false)
	c.ports.Reload.SetLabel(ReloadingLabel)
	defer func() {
		c.ports.Reload.SetEnabled(true)
		c.ports.Reload.SetLabel(label)
	}()

	c.addMessage(KindSystem, ReloadStartText, "")

	resp, err := c.backend.Reload(ctx)
	if err == nil && resp == nil {
		err = errNoResponse
	}
	if err != nil {
		c.logger.Warn("Reload request failed", zap.Error(err))
		c.addMessage(KindSystem, ConnectionErrText, "")
		return
	}

	if !resp.Success {
		c.logger.Warn("Reload rejected by backend", zap.String("error", resp.Error))
		c.addMessage(KindSystem, ReloadFailedText, "")
	} else if resp.SectionsCount != nil {
		c.addMessage(KindSystem, fmt.Sprintf(ReloadDoneFormat, *resp.SectionsCount), "")
	} else {
		c.addMessage(KindSystem, ReloadDoneText, "")
	}

	// A count is shown whenever the payload carries one, even on failure
	if resp.SectionsCount != nil {
		c.updateStats(*resp.SectionsCount)
	}
}

func (c *Controller) updateStats(sections int) {
	c.ports.Stats.SetText(fmt.Sprintf(StatsFormat, sections))
}

func (c *Controller) addMessage(kind Kind, text, id string) {
	c.ports.Log.Append(Message{Kind: kind, Text: text, ID: id})
	c.ports.Log.ScrollToEnd()
}

func (c *Controller) removeMessage(id string) {
	c.ports.Log.Remove(KeyFor(id))
}
