package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	v1 "github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1"
	"github.com/pebble-tech/cursor-my-hackathon/internal/api/middleware"
	"github.com/pebble-tech/cursor-my-hackathon/internal/config"
	"github.com/pebble-tech/cursor-my-hackathon/internal/notification"
	"github.com/pebble-tech/cursor-my-hackathon/internal/qr"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository/dao"
	"github.com/pebble-tech/cursor-my-hackathon/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	if conf.API.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	signer := qr.NewSigner(conf.API.QRSigningKey)

	authHandler := s.initAuthHandler(db)
	checkinHandler := s.initCheckinHandler(db, signer)
	creditHandler := s.initCreditHandler(db, signer)
	participantHandler := s.initParticipantHandler(db, signer)
	s.MountHandlers(authHandler, checkinHandler, creditHandler, participantHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	participantDAO := dao.NewParticipantDAO(db)
	repo := repository.NewParticipantRepository(participantDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initCheckinHandler(db *gorm.DB, signer *qr.Signer) *v1.CheckinHandler {
	checkinRepo := repository.NewCheckinRepository(dao.NewCheckinDAO(db))
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	assignmentRepo := repository.NewAssignmentRepository(dao.NewAssignmentDAO(db))
	svc := service.NewCheckinService(checkinRepo, participantRepo, assignmentRepo, signer, notification.NewDispatcher())
	handler := v1.NewCheckinHandler(svc)

	return handler
}

func (s *Server) initCreditHandler(db *gorm.DB, signer *qr.Signer) *v1.CreditHandler {
	creditRepo := repository.NewCreditRepository(dao.NewCreditDAO(db))
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	assignmentRepo := repository.NewAssignmentRepository(dao.NewAssignmentDAO(db))
	creditSvc := service.NewCreditService(creditRepo)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, participantRepo, creditRepo, notification.NewDispatcher())
	handler := v1.NewCreditHandler(creditSvc, assignmentSvc, signer)

	return handler
}

func (s *Server) initParticipantHandler(db *gorm.DB, signer *qr.Signer) *v1.ParticipantHandler {
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	creditRepo := repository.NewCreditRepository(dao.NewCreditDAO(db))
	svc := service.NewParticipantService(participantRepo, creditRepo, signer)
	handler := v1.NewParticipantHandler(svc, signer)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, checkinHandler *v1.CheckinHandler, creditHandler *v1.CreditHandler, participantHandler *v1.ParticipantHandler) {
	const basePath = "/api/v1"

	scanLimiter := middleware.NewRateLimiter(s.Config.API.ScanRateLimitRPS, s.Config.API.ScanRateLimitBurst)
	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/login", authHandler.HandleLogin)
		public.POST("/guests/status", scanLimiter.Limit(), checkinHandler.HandleGuestStatus)
		public.POST("/participants/dashboard", scanLimiter.Limit(), participantHandler.HandleDashboard)
		public.POST("/codes/:codeID/redeemed", scanLimiter.Limit(), creditHandler.HandleMarkRedeemed)
	}

	staff := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		staff.POST("/checkins", scanLimiter.Limit(), checkinHandler.HandleCheckin)
		staff.GET("/checkins/recent", checkinHandler.HandleRecentScans)
		staff.GET("/checkin-types", checkinHandler.HandleListCheckinTypes)
	}

	admin := s.Router.Group(basePath, authenticator.VerifyJWT(), middleware.RequireRoles("admin"))
	{
		admin.POST("/checkin-types", checkinHandler.HandleCreateCheckinType)
		admin.PUT("/checkin-types/:checkinTypeID", checkinHandler.HandleUpdateCheckinType)

		admin.GET("/credit-types", creditHandler.HandleListCreditTypes)
		admin.POST("/credit-types", creditHandler.HandleCreateCreditType)
		admin.PUT("/credit-types/:creditTypeID", creditHandler.HandleUpdateCreditType)
		admin.DELETE("/credit-types/:creditTypeID", creditHandler.HandleDeleteCreditType)
		admin.POST("/credit-types/:creditTypeID/codes", creditHandler.HandleImportCodes)

		admin.POST("/assignments/giveaway", creditHandler.HandleGiveaway)
		admin.POST("/assignments/adhoc", creditHandler.HandleAssignAdHoc)
		admin.POST("/codes/:codeID/unassign", creditHandler.HandleUnassignCode)

		admin.GET("/participants", participantHandler.HandleListParticipants)
		admin.POST("/participants", participantHandler.HandleCreateParticipant)
		admin.POST("/participants/import", participantHandler.HandleImportParticipants)
		admin.GET("/participants/:participantID", participantHandler.HandleGetParticipant)
		admin.PUT("/participants/:participantID", participantHandler.HandleUpdateParticipant)
		admin.DELETE("/participants/:participantID", participantHandler.HandleDeleteParticipant)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
