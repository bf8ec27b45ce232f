package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/okulova/allocation-engine/internal/api/dto"
	"github.com/okulova/allocation-engine/internal/core"
	"github.com/okulova/allocation-engine/internal/domain"
	"github.com/okulova/allocation-engine/internal/middleware"
)

// HTTPServer is the thin shell over the directory: it binds input,
// invokes engine operations, and renders outcomes. All rejection
// messages are rendered here, never printed by the engine.
type HTTPServer struct {
	Dir *core.Directory
	Log *zap.Logger

	RateLimit time.Duration
}

func NewHTTPServer(dir *core.Directory, log *zap.Logger) *HTTPServer {
	return &HTTPServer{Dir: dir, Log: log, RateLimit: 100 * time.Millisecond}
}

func (s *HTTPServer) Run(addr string) error {
	return s.router().Run(addr)
}

func (s *HTTPServer) router() *gin.Engine {
	r := gin.Default()

	rl := middleware.NewRateLimiter(s.RateLimit)
	r.Use(rl.Middleware())

	r.POST("/books", s.createBook)
	r.GET("/books", s.listBooks)
	r.GET("/books/:id", s.getBook)
	r.POST("/books/:id/open", s.openBook)
	r.POST("/books/:id/close", s.closeBook)
	r.POST("/books/:id/orders", s.addOrder)
	r.POST("/books/:id/executions", s.addExecution)
	r.POST("/books/:id/process", s.processBook)
	r.GET("/books/:id/statistics", s.getStatistics)
	r.GET("/orders/:id", s.getOrderReport)

	return r
}

func (s *HTTPServer) createBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	instrument := domain.NewInstrument(req.InstrumentName)
	id := s.Dir.CreateBook(instrument)
	s.Log.Info("book created", zap.Int("book_id", id), zap.String("instrument", req.InstrumentName))
	c.JSON(http.StatusCreated, dto.CreateBookResponse{BookID: id, InstrumentID: instrument.ID})
}

func (s *HTTPServer) listBooks(c *gin.Context) {
	snaps := s.Dir.Books()
	books := make([]dto.BookSummary, len(snaps))
	for i, snap := range snaps {
		books[i] = dto.BookSummary{
			BookID:         snap.BookID,
			InstrumentName: snap.Instrument.Name,
			Open:           snap.Open,
			Processed:      snap.Processed,
			Orders:         len(snap.Orders),
		}
	}
	c.JSON(http.StatusOK, dto.ListBooksResponse{Books: books})
}

func (s *HTTPServer) getBook(c *gin.Context) {
	id, ok := s.bookID(c)
	if !ok {
		return
	}
	snap, err := s.Dir.Snapshot(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, convertSnapshot(snap))
}

func (s *HTTPServer) openBook(c *gin.Context) {
	id, ok := s.bookID(c)
	if !ok {
		return
	}
	if err := s.Dir.OpenBook(c.Request.Context(), id); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book_id": id, "open": true})
}

func (s *HTTPServer) closeBook(c *gin.Context) {
	id, ok := s.bookID(c)
	if !ok {
		return
	}
	if err := s.Dir.CloseBook(c.Request.Context(), id); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book_id": id, "open": false})
}

func (s *HTTPServer) addOrder(c *gin.Context) {
	id, ok := s.bookID(c)
	if !ok {
		return
	}
	var req dto.AddOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		order *domain.Order
		err   error
	)
	switch req.Type {
	case dto.Market:
		order, err = domain.NewMarketOrder(req.Quantity)
	case dto.Limit:
		order, err = domain.NewLimitOrder(req.Quantity, req.LimitPrice)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order type: " + string(req.Type)})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.Dir.AddOrder(c.Request.Context(), id, order); err != nil {
		s.renderError(c, err)
		return
	}
	s.Log.Info("order added",
		zap.Int("book_id", id),
		zap.String("order_id", order.ID),
		zap.Int64("quantity", order.RequestedQuantity))
	c.JSON(http.StatusCreated, dto.AddOrderResponse{OrderID: order.ID})
}

func (s *HTTPServer) addExecution(c *gin.Context) {
	id, ok := s.bookID(c)
	if !ok {
		return
	}
	var req dto.AddExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	execution, err := domain.NewExecution(req.Quantity, req.UnitPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.Dir.AddExecution(c.Request.Context(), id, execution); err != nil {
		s.renderError(c, err)
		return
	}

	stats, err := s.Dir.Statistics(id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.Log.Info("execution accepted",
		zap.Int("book_id", id),
		zap.String("execution_id", execution.ID),
		zap.Int64("quantity", execution.OfferedQuantity),
		zap.Bool("processed", stats.Processed))
	c.JSON(http.StatusCreated, dto.AddExecutionResponse{
		ExecutionID: execution.ID,
		Processed:   stats.Processed,
	})
}

func (s *HTTPServer) processBook(c *gin.Context) {
	id, ok := s.bookID(c)
	if !ok {
		return
	}
	if err := s.Dir.ProcessBook(c.Request.Context(), id); err != nil {
		s.renderError(c, err)
		return
	}
	s.Log.Info("book processed", zap.Int("book_id", id))
	c.JSON(http.StatusOK, gin.H{"book_id": id, "processed": true})
}

func (s *HTTPServer) getStatistics(c *gin.Context) {
	id, ok := s.bookID(c)
	if !ok {
		return
	}
	stats, err := s.Dir.Statistics(id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, convertStatistics(stats))
}

func (s *HTTPServer) getOrderReport(c *gin.Context) {
	report, err := s.Dir.FindOrder(c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderReportResponse{
		OrderID:           report.OrderID,
		Valid:             report.Valid,
		SatisfiedQuantity: report.SatisfiedQuantity,
		UnitPrice:         report.UnitPrice,
		TotalCost:         report.TotalCost,
		Processed:         report.Processed,
	})
}

func (s *HTTPServer) bookID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return 0, false
	}
	return id, true
}

// renderError maps engine outcomes to HTTP: policy rejections become
// 409 with a reason code, missing books/orders 404, contract
// violations 422.
func (s *HTTPServer) renderError(c *gin.Context, err error) {
	var rej *domain.Rejection
	switch {
	case errors.As(err, &rej):
		resp := dto.RejectionResponse{Code: string(rej.Code), Message: rej.Message}
		if rej.Code == domain.RejectExecutionOverOffer {
			max := rej.MaxAcceptable
			resp.MaxAcceptable = &max
		}
		c.JSON(http.StatusConflict, resp)
	case errors.Is(err, core.ErrBookNotFound), errors.Is(err, core.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrProcessOpenBook),
		errors.Is(err, core.ErrBookAlreadyProcessed),
		errors.Is(err, core.ErrNoExecutions):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		s.Log.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func convertOrder(o domain.Order) dto.Order {
	return dto.Order{
		ID:                o.ID,
		Type:              dto.OrderType(o.Kind),
		RequestedQuantity: o.RequestedQuantity,
		SatisfiedQuantity: o.SatisfiedQuantity,
		LimitPrice:        o.LimitPrice,
		Valid:             o.Valid,
		EntryDate:         o.EntryDate,
	}
}

func convertOrderPtr(o *domain.Order) *dto.Order {
	if o == nil {
		return nil
	}
	converted := convertOrder(*o)
	return &converted
}

func convertSnapshot(snap *domain.BookSnapshot) dto.BookResponse {
	orders := make([]dto.Order, len(snap.Orders))
	for i, o := range snap.Orders {
		orders[i] = convertOrder(o)
	}
	executions := make([]dto.Execution, len(snap.Executions))
	for i, e := range snap.Executions {
		executions[i] = dto.Execution{
			ID:              e.ID,
			OfferedQuantity: e.OfferedQuantity,
			UnitPrice:       e.UnitPrice,
			ReceivedAt:      e.ReceivedAt,
		}
	}
	return dto.BookResponse{
		BookID:         snap.BookID,
		InstrumentName: snap.Instrument.Name,
		Open:           snap.Open,
		OpenedOnce:     snap.OpenedOnce,
		Processed:      snap.Processed,
		Orders:         orders,
		Executions:     executions,
		Timestamp:      snap.Timestamp,
	}
}

func convertStatistics(stats core.BookStatistics) dto.StatisticsResponse {
	return dto.StatisticsResponse{
		InstrumentName:        stats.Instrument.Name,
		TotalOrders:           stats.TotalOrders,
		ValidOrders:           stats.ValidOrders,
		InvalidOrders:         stats.InvalidOrders,
		Demand:                stats.Demand,
		DemandOfValidOrders:   stats.DemandOfValidOrders,
		DemandOfInvalidOrders: stats.DemandOfInvalidOrders,
		BiggestOrder:          convertOrderPtr(stats.BiggestOrder),
		SmallestOrder:         convertOrderPtr(stats.SmallestOrder),
		EarliestOrder:         convertOrderPtr(stats.EarliestOrder),
		LatestOrder:           convertOrderPtr(stats.LatestOrder),
		DemandPerLimitPrice:   stats.DemandPerLimitPrice,
		TotalExecutionOffer:   stats.TotalExecutionOffer,
		ExecutionPrice:        stats.ExecutionPrice,
		Open:                  stats.Open,
		Processed:             stats.Processed,
	}
}
