package settlementengine

import (
	"log/slog"
	"time"

	httpadapter "bazaar/contexts/exchange-core/settlement-engine/adapters/http"
	"bazaar/contexts/exchange-core/settlement-engine/adapters/memory"
	"bazaar/contexts/exchange-core/settlement-engine/application/commands"
	"bazaar/contexts/exchange-core/settlement-engine/application/queries"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	"bazaar/contexts/exchange-core/settlement-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

type Module struct {
	Handler httpadapter.Handler

	// In-memory wiring only. Nil when built from NewModule.
	Store     *memory.Store
	Token     *memory.Token
	Directory *memory.Directory
	Royalties *memory.RoyaltyTable
}

type Dependencies struct {
	Orders        ports.OrderRepository
	Fees          ports.FeeConfigRepository
	Payments      ports.PaymentToken
	Registries    ports.RegistryDirectory
	Royalties     ports.RoyaltyLookup
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	EngineAddress common.Address
	Owner         common.Address
	Admin         common.Address
	MinOrderTTL   time.Duration
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CreateOrder: commands.CreateOrderUseCase{
				Orders:        deps.Orders,
				Fees:          deps.Fees,
				Payments:      deps.Payments,
				Registries:    deps.Registries,
				Clock:         deps.Clock,
				IDGenerator:   deps.IDGenerator,
				EngineAddress: deps.EngineAddress,
				MinOrderTTL:   deps.MinOrderTTL,
				Logger:        deps.Logger,
			},
			CancelOrder: commands.CancelOrderUseCase{
				Orders:      deps.Orders,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Admin:       deps.Admin,
				Logger:      deps.Logger,
			},
			ExecuteOrder: commands.ExecuteOrderUseCase{
				Orders:        deps.Orders,
				Fees:          deps.Fees,
				Payments:      deps.Payments,
				Registries:    deps.Registries,
				Royalties:     deps.Royalties,
				Clock:         deps.Clock,
				IDGenerator:   deps.IDGenerator,
				EngineAddress: deps.EngineAddress,
				Logger:        deps.Logger,
			},
			UpdateFees: commands.UpdateFeesUseCase{
				Fees:        deps.Fees,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Owner:       deps.Owner,
				Logger:      deps.Logger,
			},
			GetOrder:   queries.GetOrderUseCase{Orders: deps.Orders},
			ListOrders: queries.ListOrdersUseCase{Orders: deps.Orders},
			Logger:     deps.Logger,
		},
	}
}

type InMemoryConfig struct {
	EngineAddress common.Address
	Owner         common.Address
	Admin         common.Address
	FeeConfig     entities.FeeConfig
	MinOrderTTL   time.Duration
}

func NewInMemoryModule(config InMemoryConfig, logger *slog.Logger) Module {
	store := memory.NewStore(config.FeeConfig, logger)
	token := memory.NewToken(config.EngineAddress)
	directory := memory.NewDirectory()
	royalties := memory.NewRoyaltyTable()

	module := NewModule(Dependencies{
		Orders:        store,
		Fees:          store,
		Payments:      token,
		Registries:    directory,
		Royalties:     royalties,
		Clock:         store,
		IDGenerator:   store,
		EngineAddress: config.EngineAddress,
		Owner:         config.Owner,
		Admin:         config.Admin,
		MinOrderTTL:   config.MinOrderTTL,
		Logger:        logger,
	})
	module.Store = store
	module.Token = token
	module.Directory = directory
	module.Royalties = royalties
	return module
}
