// Package engine — конечный автомат диалога. Интерпретирует входящий
// текст в контексте текущего состояния сессии, вызывает журнал и
// агрегатор и решает, каким будет следующее состояние и ответ.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/category"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/charts"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/export"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/identity"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/log"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/service"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/session"
)

// Event — входящее событие транспорта.
type Event struct {
	ExternalUserID int64
	Text           string
}

// Attachment — бинарный артефакт ответа (например, CSV или PNG).
type Attachment struct {
	Name string
	Data []byte
}

// Reply — ответ движка транспорту. Options — упорядоченный список
// допустимых вариантов ввода для текущего состояния; раскладку кнопок
// транспорт выбирает сам.
type Reply struct {
	Text          string
	Options       []string
	RemoveOptions bool
	Attachment    *Attachment
}

type Engine struct {
	ids      *identity.Mapper
	ledger   *service.Ledger
	reports  *service.Reporter
	registry *category.Registry
	charts   *charts.Generator
	sessions *session.Manager
	logger   *log.Logger

	// helpText принадлежит транспортному слою и лишь проносится через
	// интент Help.
	helpText string
	timeout  time.Duration
}

func New(ids *identity.Mapper, ledger *service.Ledger, reports *service.Reporter, registry *category.Registry, gen *charts.Generator, logger *log.Logger, timeout time.Duration, helpText string) *Engine {
	return &Engine{
		ids:      ids,
		ledger:   ledger,
		reports:  reports,
		registry: registry,
		charts:   gen,
		sessions: session.NewManager(),
		logger:   logger.WithComponent("engine"),
		helpText: helpText,
		timeout:  timeout,
	}
}

// Handle обрабатывает одно входящее событие. События одного пользователя
// сериализуются блокировкой его сессии; обращения к хранилищу ограничены
// таймаутом. Любой сбой оставляет сессию в определённом состоянии.
func (e *Engine) Handle(ctx context.Context, ev Event) Reply {
	logger := e.logger.With(
		"correlation_id", uuid.NewString(),
		"external_id", ev.ExternalUserID,
	)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	userID, err := e.ids.Resolve(ctx, ev.ExternalUserID)
	if err != nil {
		logger.Error("resolve user", "error", err)
		return Reply{Text: msgInternalError, Options: menuOptions()}
	}
	logger = logger.With("user_id", userID)

	s := e.sessions.Get(userID)
	s.Lock()
	defer s.Unlock()

	return e.transition(ctx, logger, s, userID, strings.TrimSpace(ev.Text))
}

func (e *Engine) transition(ctx context.Context, logger *log.Logger, s *session.Session, userID int64, text string) (reply Reply) {
	// Сессия не должна застрять: паника переводит её в Idle.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in transition", "state", s.State(), "panic", r)
			s.Reset()
			reply = Reply{Text: msgInternalError, Options: menuOptions()}
		}
	}()

	switch s.State() {
	case session.StateChoosingCategory:
		return e.handleChoosingCategory(s, text)
	case session.StateEnteringAmount:
		return e.handleEnteringAmount(ctx, logger, s, userID, text)
	case session.StateChoosingDeleteAction:
		return e.handleChoosingDeleteAction(ctx, logger, s, userID, text)
	case session.StateEnteringDeleteID:
		return e.handleEnteringDeleteID(ctx, logger, s, userID, text)
	case session.StateEnteringTimezone:
		return e.handleEnteringTimezone(ctx, logger, s, userID, text)
	default:
		return e.handleIdle(ctx, logger, s, userID, text)
	}
}

func (e *Engine) handleIdle(ctx context.Context, logger *log.Logger, s *session.Session, userID int64, text string) Reply {
	switch Classify(text) {
	case IntentStart:
		return Reply{Text: msgWelcome, Options: []string{"Меню"}}

	case IntentAddExpense:
		return e.startTransaction(s, model.KindExpense)
	case IntentAddIncome:
		return e.startTransaction(s, model.KindIncome)

	case IntentStats:
		return e.statsReply(ctx, logger, s, userID, false)
	case IntentStatsDetailed:
		return e.statsReply(ctx, logger, s, userID, true)

	case IntentCategories:
		return Reply{
			Text: formatCategories(
				e.registry.Names(model.KindExpense),
				e.registry.Names(model.KindIncome)),
			Options: backOptions(),
		}

	case IntentExport:
		return e.exportReply(ctx, logger, s, userID)

	case IntentDelete:
		s.BeginDelete()
		return Reply{Text: msgChooseAction, Options: deleteOptions()}

	case IntentTimezone:
		s.BeginTimezone()
		return Reply{Text: msgTimezoneAsk, Options: backOptions()}

	case IntentHelp:
		return Reply{Text: e.helpText, Options: backOptions()}

	default:
		// Меню, "Назад" в Idle и любой нераспознанный ввод ведут в меню.
		return Reply{Text: msgChooseAction, Options: menuOptions()}
	}
}

func (e *Engine) startTransaction(s *session.Session, kind model.Kind) Reply {
	s.BeginTransaction(kind)
	return Reply{
		Text:    fmt.Sprintf("Выберите категорию для %s:", kindGenitive(kind)),
		Options: withBack(e.registry.Names(kind)),
	}
}

func (e *Engine) handleChoosingCategory(s *session.Session, text string) Reply {
	if text == backLabel {
		return e.backToMenu(s)
	}
	if !e.registry.IsValid(text, s.Action()) {
		return Reply{Text: msgChooseCategory, Options: withBack(e.registry.Names(s.Action()))}
	}
	s.ChooseCategory(text)
	return Reply{
		Text:          fmt.Sprintf("Введите сумму и описание (например, %s):", amountExample(text)),
		RemoveOptions: true,
	}
}

func (e *Engine) handleEnteringAmount(ctx context.Context, logger *log.Logger, s *session.Session, userID int64, text string) Reply {
	if text == backLabel {
		return e.backToMenu(s)
	}

	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return Reply{Text: msgAmountFormat, Options: backOptions()}
	}
	amount, err := decimal.NewFromString(parts[0])
	if err != nil {
		return Reply{Text: msgAmountNumber, Options: backOptions()}
	}
	description := strings.TrimSpace(parts[1])

	kind, categoryName := s.Action(), s.Category()
	_, err = e.ledger.Record(ctx, userID, kind, categoryName, amount, description)
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		return Reply{Text: msgAmountPositive, Options: backOptions()}
	case err != nil:
		return e.failure(logger, s, err)
	}

	s.Reset()
	return Reply{
		Text:    formatConfirmation(kind, amount, categoryName, description),
		Options: backOptions(),
	}
}

func (e *Engine) handleChoosingDeleteAction(ctx context.Context, logger *log.Logger, s *session.Session, userID int64, text string) Reply {
	switch text {
	case backLabel:
		return e.backToMenu(s)
	case deleteByIDLabel:
		s.AwaitDeleteID()
		return Reply{Text: msgDeletePrompt, Options: backOptions()}
	case resetAllLabel:
		if err := e.ledger.ResetAll(ctx, userID); err != nil {
			return e.failure(logger, s, err)
		}
		s.Reset()
		return Reply{Text: msgResetDone, Options: backOptions()}
	default:
		return Reply{Text: msgChooseDelete, Options: deleteOptions()}
	}
}

func (e *Engine) handleEnteringDeleteID(ctx context.Context, logger *log.Logger, s *session.Session, userID int64, text string) Reply {
	if text == backLabel {
		return e.backToMenu(s)
	}
	// Состояние очищается при любом исходе, в том числе при ошибке формата.
	defer s.Reset()

	fields := strings.Fields(text)
	if len(fields) != 2 || fields[0] != "/delete" {
		return Reply{Text: msgDeleteFormat, Options: backOptions()}
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Reply{Text: msgDeleteNotInt, Options: backOptions()}
	}

	kind, err := e.ledger.DeleteByID(ctx, userID, id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return Reply{Text: fmt.Sprintf("Запись с ID %d не найдена.", id), Options: backOptions()}
	case err != nil:
		logger.Error("delete by id", "error", err)
		return Reply{Text: msgInternalError, Options: menuOptions()}
	}

	table := "расходов"
	if kind == model.KindIncome {
		table = "доходов"
	}
	return Reply{Text: fmt.Sprintf("Запись с ID %d удалена из %s.", id, table), Options: backOptions()}
}

func (e *Engine) handleEnteringTimezone(ctx context.Context, logger *log.Logger, s *session.Session, userID int64, text string) Reply {
	if text == backLabel {
		return e.backToMenu(s)
	}

	err := e.ledger.SetTimezone(ctx, userID, text)
	switch {
	case errors.Is(err, service.ErrInvalidTimezone):
		return Reply{Text: msgTimezoneBad, Options: backOptions()}
	case err != nil:
		return e.failure(logger, s, err)
	}

	s.Reset()
	return Reply{Text: fmt.Sprintf("Часовой пояс установлен: %s", text), Options: backOptions()}
}

func (e *Engine) statsReply(ctx context.Context, logger *log.Logger, s *session.Session, userID int64, detailed bool) Reply {
	report, err := e.reports.Summarize(ctx, userID, detailed)
	if err != nil {
		return e.failure(logger, s, err)
	}
	if report.Empty() {
		return Reply{Text: msgNoStats, Options: backOptions()}
	}

	reply := Reply{Text: formatReport(report), Options: backOptions()}
	if detailed {
		// Год — последнее окно отчёта.
		year := report.Windows[len(report.Windows)-1]
		png, err := e.charts.CategoryBars(year)
		if err != nil {
			logger.Warn("render chart", "error", err)
		} else if png != nil {
			reply.Attachment = &Attachment{Name: "статистика.png", Data: png}
		}
	}
	return reply
}

func (e *Engine) exportReply(ctx context.Context, logger *log.Logger, s *session.Session, userID int64) Reply {
	records, err := e.ledger.ExportAll(ctx, userID)
	if err != nil {
		return e.failure(logger, s, err)
	}
	if len(records) == 0 {
		return Reply{Text: msgNoExport, Options: backOptions()}
	}
	data, err := export.CSV(records)
	if err != nil {
		return e.failure(logger, s, err)
	}
	return Reply{
		Text:       msgExportCaption,
		Options:    backOptions(),
		Attachment: &Attachment{Name: export.Filename(userID), Data: data},
	}
}

func (e *Engine) backToMenu(s *session.Session) Reply {
	s.Reset()
	return Reply{Text: msgChooseAction, Options: menuOptions()}
}

// failure — отказ хранилища: логируется, пользователю уходит общий ответ,
// сессия сбрасывается в Idle.
func (e *Engine) failure(logger *log.Logger, s *session.Session, err error) Reply {
	logger.Error("storage failure", "state", s.State(), "error", err)
	s.Reset()
	return Reply{Text: msgInternalError, Options: menuOptions()}
}
