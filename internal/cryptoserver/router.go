package cryptoserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
)

type generateKeysRequest struct {
	KeySize int `json:"keySize" binding:"omitempty,gt=0,lte=16384"`
}

type encryptRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Data      string `json:"data"`
}

type decryptRequest struct {
	SessionID     string `json:"sessionId" binding:"required"`
	EncryptedData string `json:"encryptedData" binding:"required"`
}

type generateTextRequest struct {
	Length int `json:"length" binding:"omitempty,gt=0,lte=1048576"`
}

var defaultKeySizes = map[string]int{
	SchemeRSA:    2048,
	SchemeHybrid: 2048,
	SchemeECC:    256,
}

// NewRouter wires the crypto API under /api/crypto plus a health check.
func NewRouter(svc *Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": svc.Sessions().Len()})
	})

	api := router.Group("/api/crypto")
	{
		api.POST("/generate/text", generateTextHandler(svc))
		api.POST("/:scheme/generateKeys", generateKeysHandler(svc))
		api.POST("/:scheme/encrypt", encryptHandler(svc))
		api.POST("/:scheme/decrypt", decryptHandler(svc))
	}
	return router
}

func generateKeysHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("scheme")
		if _, err := svc.Scheme(name); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		var req generateKeysRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if req.KeySize == 0 {
			req.KeySize = defaultKeySizes[name]
		}
		c.JSON(http.StatusOK, svc.GenerateKeys(name, req.KeySize))
	}
}

func encryptHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("scheme")
		if _, err := svc.Scheme(name); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		var req encryptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, svc.Encrypt(name, req.SessionID, req.Data))
	}
}

func decryptHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("scheme")
		if _, err := svc.Scheme(name); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		var req decryptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, svc.Decrypt(name, req.SessionID, req.EncryptedData))
	}
}

func generateTextHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateTextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		text, err := svc.GenerateText(req.Length)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"text": text, "length": len(text)})
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l := logging.Logger()
		l.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// corsMiddleware allows any origin so a browser front end can call the API during development.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
