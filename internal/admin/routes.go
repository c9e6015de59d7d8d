package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/resetctl/internal/mgmt"
	"github.com/danmuck/resetctl/internal/runctl"
)

// commandRequest injects one run-control stream sample.
type commandRequest struct {
	Code uint16 `json:"code"`
}

// busRequest mirrors one management bus access.
type busRequest struct {
	Addr      uint8  `json:"addr"`
	Read      bool   `json:"read"`
	Write     bool   `json:"write"`
	WriteData uint32 `json:"write_data"`
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    time.Since(s.start).String(),
			"component": "resetctl-admin",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.seq.Status())
	})

	s.router.POST("/command", func(c *gin.Context) {
		var req commandRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Code >= 1<<runctl.CommandWidth {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code exceeds command width"})
			return
		}
		s.seq.OfferCommand(req.Code)
		c.JSON(http.StatusAccepted, gin.H{
			"code":    req.Code,
			"decodes": runctl.DecodeCommand(req.Code).String(),
		})
	})

	s.router.POST("/reset", func(c *gin.Context) {
		s.seq.PulseReset()
		c.JSON(http.StatusOK, s.seq.Status())
	})

	s.router.POST("/bus", func(c *gin.Context) {
		var req busRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		reply := s.seq.ApplyBusRequest(mgmt.BusRequest{
			Addr:      req.Addr,
			Read:      req.Read,
			Write:     req.Write,
			WriteData: req.WriteData,
		})
		c.JSON(http.StatusOK, gin.H{
			"read_data":    reply.ReadData,
			"wait_request": reply.WaitRequest,
		})
	})
}
