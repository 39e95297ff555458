package http

import (
	"gorm.io/gorm"

	"rdfstore/internal/application/storage/usecases"
	"rdfstore/internal/infrastructure/auth"
	"rdfstore/internal/infrastructure/config"
	"rdfstore/internal/infrastructure/email"
	"rdfstore/internal/infrastructure/gpfs"
	"rdfstore/internal/infrastructure/graph"
	"rdfstore/internal/infrastructure/ldap"
	"rdfstore/internal/infrastructure/repository"
	"rdfstore/internal/interfaces/http/handlers/admin"
	"rdfstore/internal/interfaces/http/middleware"
	"rdfstore/internal/shared/db"
	"rdfstore/internal/shared/logger"
)

// Container wires repositories, external service clients, use cases and
// handlers for the HTTP server. Construction order follows the dependency
// direction: infrastructure first, then use cases, then handlers.
type Container struct {
	AllocationHandler *admin.AllocationHandler
	GroupHandler      *admin.GroupHandler
	JobHandler        *admin.JobHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// NewContainer builds the full dependency graph on top of an initialized
// database connection.
func NewContainer(gdb *gorm.DB, cfg *config.Config, log logger.Interface) *Container {
	allocRepo := repository.NewAllocationRepository(gdb)
	groupRepo := repository.NewResearchGroupRepository(gdb)
	membershipRepo := repository.NewGroupMembershipRepository(gdb)
	gidAllocator := repository.NewGIDAllocatorRepository(gdb, cfg.GID.Floor, cfg.GID.Ceiling)
	txManager := db.NewTransactionManager(gdb)

	directory := ldap.NewClient(&cfg.LDAP, log.Named("ldap"))
	filesystem := gpfs.NewClient(&cfg.GPFS, log.Named("gpfs"))
	graphClient := graph.NewClient(&cfg.Graph, log.Named("graph"))
	resolver := graph.NewResolver(graphClient, directory, log.Named("resolver"))
	notifier := email.NewSMTPNotificationSink(&cfg.Email)

	provisionUC := usecases.NewProvisionAllocationUseCase(
		allocRepo, membershipRepo, gidAllocator, directory, filesystem, resolver, txManager, notifier, log)
	listUC := usecases.NewListAllocationsUseCase(allocRepo, log)
	addMemberUC := usecases.NewAddMemberUseCase(
		allocRepo, membershipRepo, directory, resolver, txManager, notifier, log)
	removeMemberUC := usecases.NewRemoveMemberUseCase(
		allocRepo, membershipRepo, directory, txManager, log)
	createGroupUC := usecases.NewCreateGroupUseCase(groupRepo, resolver, log)
	syncQuotasUC := usecases.NewSyncQuotasUseCase(allocRepo, filesystem, cfg.Jobs.Workers, log)
	auditUC := usecases.NewAuditMembershipsUseCase(
		allocRepo, membershipRepo, directory, notifier, cfg.Jobs.Workers, log)

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret)

	return &Container{
		AllocationHandler: admin.NewAllocationHandler(provisionUC, listUC, addMemberUC, removeMemberUC, log),
		GroupHandler:      admin.NewGroupHandler(createGroupUC, log),
		JobHandler:        admin.NewJobHandler(syncQuotasUC, auditUC, log),
		AuthMiddleware:    middleware.NewAuthMiddleware(jwtService, log),
	}
}
