package routes

import (
	"lanyard/auth"
	"lanyard/badge"
	"lanyard/ingest"
	"lanyard/meetings"
	"lanyard/middleware"
	"lanyard/ratelim"
	"lanyard/scan"
	"lanyard/scanfeed"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, svc *auth.Service) {
	router.POST("/api/auth/signup", svc.HandleSignup)
	router.POST("/api/auth/login", svc.HandleLogin)
}

func AddIngestRoutes(router *httprouter.Router, pipeline *ingest.Pipeline) {
	router.POST("/api/imports", middleware.Authenticate(pipeline.HandleUpload))
	router.GET("/api/imports/:id", middleware.Authenticate(pipeline.HandleGetReport))
	router.GET("/api/directory", pipeline.HandleDirectory)
}

func AddScanRoutes(router *httprouter.Router, processor *scan.Processor, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/scans", rateLimiter.Limit(processor.HandleScan))
}

func AddMeetingRoutes(router *httprouter.Router, scheduler *meetings.Scheduler) {
	router.POST("/api/meetings", middleware.Authenticate(scheduler.HandleRequestMeeting))
	router.POST("/api/meetings/:id/accept", middleware.Authenticate(scheduler.HandleAcceptMeeting))
	router.POST("/api/meetings/:id/decline", middleware.Authenticate(scheduler.HandleDeclineMeeting))
	// lives outside /api/meetings so the static segment does not collide
	// with the :id routes in httprouter's tree
	router.POST("/api/autopack", middleware.Authenticate(scheduler.HandleAutoPack))
	router.GET("/api/actors/:id/meetings", scheduler.HandleMeetingsForActor)
	router.GET("/api/actors/:id/meetings.ics", scheduler.HandleExportICS)
}

func AddBadgeRoutes(router *httprouter.Router, printer *badge.Printer) {
	router.GET("/api/attendees/:id/badge", middleware.Authenticate(printer.HandlePrintBadge))
}

func AddScanFeedRoutes(router *httprouter.Router, hub *scanfeed.Hub) {
	router.GET("/ws/scans", scanfeed.WebSocketHandler(hub))
}
