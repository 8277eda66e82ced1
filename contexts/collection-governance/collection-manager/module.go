package collectionmanager

import (
	"log/slog"

	authorizationforwarder "bazaar/contexts/collection-governance/authorization-forwarder"
	httpadapter "bazaar/contexts/collection-governance/collection-manager/adapters/http"
	"bazaar/contexts/collection-governance/collection-manager/adapters/memory"
	"bazaar/contexts/collection-governance/collection-manager/application/commands"
	"bazaar/contexts/collection-governance/collection-manager/application/queries"
	"bazaar/contexts/collection-governance/collection-manager/ports"

	"github.com/ethereum/go-ethereum/common"
)

type Module struct {
	Handler httpadapter.Handler

	// In-memory wiring only. Nil when built from NewModule.
	Store     *memory.Store
	World     *memory.World
	Factory   *memory.Factory
	Forwarder *authorizationforwarder.Forwarder
}

type Dependencies struct {
	Contracts                ports.ContractDirectory
	Repo                     ports.AllowlistRepository
	Clock                    ports.Clock
	IDGenerator              ports.IDGenerator
	Owner                    common.Address
	ManagerAddress           common.Address
	EnableCommitteeAllowlist bool
	Logger                   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CreateCollection: commands.CreateCollectionUseCase{
				Contracts:      deps.Contracts,
				Repo:           deps.Repo,
				Clock:          deps.Clock,
				IDGenerator:    deps.IDGenerator,
				Owner:          deps.Owner,
				ManagerAddress: deps.ManagerAddress,
				Logger:         deps.Logger,
			},
			ManageCollection: commands.ManageCollectionUseCase{
				Contracts:                deps.Contracts,
				Repo:                     deps.Repo,
				Clock:                    deps.Clock,
				IDGenerator:              deps.IDGenerator,
				Owner:                    deps.Owner,
				ManagerAddress:           deps.ManagerAddress,
				EnableCommitteeAllowlist: deps.EnableCommitteeAllowlist,
				Logger:                   deps.Logger,
			},
			SetAllowedOperation: commands.SetAllowedOperationUseCase{
				Repo:        deps.Repo,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Owner:       deps.Owner,
				Logger:      deps.Logger,
			},
			ListAllowedOperations: queries.ListAllowedOperationsUseCase{Repo: deps.Repo},
			Logger:                deps.Logger,
		},
	}
}

type InMemoryConfig struct {
	Owner                    common.Address
	ManagerAddress           common.Address
	ForwarderAddress         common.Address
	FactoryAddress           common.Address
	EnableCommitteeAllowlist bool
}

func NewInMemoryModule(config InMemoryConfig, logger *slog.Logger) Module {
	store := memory.NewStore(logger)
	world := memory.NewWorld()
	factory := memory.NewFactory(config.FactoryAddress, world)
	forwarder := authorizationforwarder.New(config.ForwarderAddress, config.ManagerAddress, world, logger)
	world.Deploy(factory)
	world.Deploy(forwarder)

	module := NewModule(Dependencies{
		Contracts:                world,
		Repo:                     store,
		Clock:                    store,
		IDGenerator:              store,
		Owner:                    config.Owner,
		ManagerAddress:           config.ManagerAddress,
		EnableCommitteeAllowlist: config.EnableCommitteeAllowlist,
		Logger:                   logger,
	})
	module.Store = store
	module.World = world
	module.Factory = factory
	module.Forwarder = forwarder
	return module
}
