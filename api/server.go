package api

import (
	"net/http"
	"strconv"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/remitx-network/remitx-ledger/automation"
	"github.com/remitx-network/remitx-ledger/remit"
	"github.com/remitx-network/remitx-ledger/token"
)

// Server exposes the ledger's query surface over HTTP plus a websocket
// event stream for off-chain indexers and UIs. All remittance-mutating
// operations stay on the ledger's Go API; the only mutating endpoint is
// the faucet, and only when explicitly enabled for local deployments.
type Server struct {
	logger    log.Logger
	ledger    *remit.Ledger
	scheduler *automation.Scheduler

	// symbol -> mintable vault, faucet targets
	faucets      map[string]token.MintableVault
	enableFaucet bool
}

func NewServer(logger log.Logger, ledger *remit.Ledger, scheduler *automation.Scheduler) *Server {
	return &Server{
		logger:    logger,
		ledger:    ledger,
		scheduler: scheduler,
		faucets:   map[string]token.MintableVault{},
	}
}

// EnableFaucet registers mintable vaults the faucet endpoint may mint
// from. Local deployments only.
func (s *Server) EnableFaucet(vaults ...token.MintableVault) {
	s.enableFaucet = true
	for _, v := range vaults {
		s.faucets[v.Symbol()] = v
	}
}

// Router builds the gin engine.
func (s *Server) Router(trustedProxies []string) (*gin.Engine, error) {
	router := gin.Default()
	if len(trustedProxies) > 0 {
		if err := router.SetTrustedProxies(trustedProxies); err != nil {
			return nil, err
		}
	}

	router.GET("/remittance/:id", s.getRemittance)
	router.GET("/remittances/count", s.getCount)
	router.GET("/user/:address/sent", s.getUserSent)
	router.GET("/user/:address/received", s.getUserReceived)
	router.GET("/user/:address/schedules", s.getUserSchedules)
	router.GET("/balance/:token", s.getBalance)
	router.GET("/fee", s.getFee)
	router.GET("/ws", s.streamEvents)
	if s.enableFaucet {
		router.POST("/faucet", s.faucet)
	}
	return router, nil
}

// Start serves until the listener fails.
func (s *Server) Start(listenAddress string, trustedProxies []string) error {
	router, err := s.Router(trustedProxies)
	if err != nil {
		return err
	}
	s.logger.Info("api listening", "address", listenAddress)
	return router.Run(listenAddress)
}

func (s *Server) getRemittance(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "invalid remittance id"})
		return
	}

	r, err := s.ledger.GetRemittance(id)
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "remittance not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, r)
}

func (s *Server) getCount(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"count": s.ledger.RemittanceCount()})
}

func (s *Server) getUserSent(c *gin.Context) {
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"ids": s.ledger.UserRemittances(addr)})
}

func (s *Server) getUserReceived(c *gin.Context) {
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"ids": s.ledger.UserReceivedRemittances(addr)})
}

func (s *Server) getUserSchedules(c *gin.Context) {
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"schedules": s.scheduler.Schedules(addr)})
}

func (s *Server) getBalance(c *gin.Context) {
	addr, ok := parseAddress(c, c.Param("token"))
	if !ok {
		return
	}
	bal, err := s.ledger.ContractTokenBalance(addr)
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "token not registered"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"token": addr.Hex(), "balance": bal})
}

func (s *Server) getFee(c *gin.Context) {
	chain, err := strconv.ParseUint(c.Query("chain"), 10, 64)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "invalid chain selector"})
		return
	}
	recipient, ok := parseAddress(c, c.Query("recipient"))
	if !ok {
		return
	}
	amount, ok := math.NewIntFromString(c.Query("amount"))
	if !ok {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "invalid amount"})
		return
	}

	fee := s.ledger.GetFee(chain, recipient, amount)
	c.IndentedJSON(http.StatusOK, gin.H{"fee": fee})
}

type faucetRequest struct {
	Token  string `json:"token" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

func (s *Server) faucet(c *gin.Context) {
	var req faucetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	vault, ok := s.faucets[req.Token]
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "unknown faucet token"})
		return
	}
	to, ok := parseAddress(c, req.To)
	if !ok {
		return
	}
	amount, ok := math.NewIntFromString(req.Amount)
	if !ok || amount.IsNegative() {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "invalid amount"})
		return
	}

	if err := vault.Mint(to, amount); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	s.logger.Info("faucet mint", "token", req.Token, "to", to.Hex(), "amount", amount.String())
	c.IndentedJSON(http.StatusOK, gin.H{
		"token":   req.Token,
		"to":      to.Hex(),
		"balance": vault.BalanceOf(to),
	})
}

func parseAddress(c *gin.Context, raw string) (common.Address, bool) {
	if !common.IsHexAddress(raw) {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "invalid address"})
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}
