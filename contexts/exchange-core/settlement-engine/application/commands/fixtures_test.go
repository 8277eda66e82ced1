package commands_test

import (
	"math/big"
	"time"

	registrymemory "bazaar/contexts/exchange-core/asset-adapter/memory"
	"bazaar/contexts/exchange-core/settlement-engine/adapters/memory"
	"bazaar/contexts/exchange-core/settlement-engine/application/commands"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"

	"github.com/ethereum/go-ethereum/common"
)

var (
	engineAddress    = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	ownerAddress     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	adminAddress     = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	collectorAddress = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	sellerAddress    = common.HexToAddress("0x0000000000000000000000000000000000000051")
	buyerAddress     = common.HexToAddress("0x0000000000000000000000000000000000000052")
	creatorAddress   = common.HexToAddress("0x0000000000000000000000000000000000000053")
	itemsAddress     = common.HexToAddress("0x0000000000000000000000000000000000000101")
	stockAddress     = common.HexToAddress("0x0000000000000000000000000000000000000102")
	estateAddress    = common.HexToAddress("0x0000000000000000000000000000000000000103")
)

// engineWorld wires every in-memory double the settlement commands touch.
type engineWorld struct {
	store     *memory.Store
	token     *memory.Token
	directory *memory.Directory
	royalties *memory.RoyaltyTable
	items     *registrymemory.ItemRegistry
	stock     *registrymemory.StockRegistry
	estates   *registrymemory.ComposableRegistry
}

func newEngineWorld(feeConfig entities.FeeConfig) *engineWorld {
	world := &engineWorld{
		store:     memory.NewStore(feeConfig, nil),
		token:     memory.NewToken(engineAddress),
		directory: memory.NewDirectory(),
		royalties: memory.NewRoyaltyTable(),
		items:     registrymemory.NewItemRegistry(itemsAddress),
		stock:     registrymemory.NewStockRegistry(stockAddress),
		estates:   registrymemory.NewComposableRegistry(estateAddress),
	}
	world.directory.Deploy(world.items)
	world.directory.Deploy(world.stock)
	world.directory.Deploy(world.estates)
	return world
}

func defaultFeeConfig() entities.FeeConfig {
	return entities.FeeConfig{
		FeesCollector:              collectorAddress,
		FeesCollectorCutPerMillion: 25_000,
		RoyaltiesCutPerMillion:     100_000,
	}
}

func (w *engineWorld) createOrderUseCase() commands.CreateOrderUseCase {
	return commands.CreateOrderUseCase{
		Orders:        w.store,
		Fees:          w.store,
		Payments:      w.token,
		Registries:    w.directory,
		Clock:         w.store,
		IDGenerator:   w.store,
		EngineAddress: engineAddress,
	}
}

func (w *engineWorld) cancelOrderUseCase() commands.CancelOrderUseCase {
	return commands.CancelOrderUseCase{
		Orders:      w.store,
		Clock:       w.store,
		IDGenerator: w.store,
		Admin:       adminAddress,
	}
}

func (w *engineWorld) executeOrderUseCase() commands.ExecuteOrderUseCase {
	return commands.ExecuteOrderUseCase{
		Orders:        w.store,
		Fees:          w.store,
		Payments:      w.token,
		Registries:    w.directory,
		Royalties:     w.royalties,
		Clock:         w.store,
		IDGenerator:   w.store,
		EngineAddress: engineAddress,
	}
}

func (w *engineWorld) updateFeesUseCase() commands.UpdateFeesUseCase {
	return commands.UpdateFeesUseCase{
		Fees:        w.store,
		Clock:       w.store,
		IDGenerator: w.store,
		Owner:       ownerAddress,
	}
}

// mintExclusive puts an item in the seller's hands with the engine approved
// as operator.
func (w *engineWorld) mintExclusive(itemID *big.Int) {
	w.items.Mint(itemID, sellerAddress)
	w.items.SetApprovalForAll(sellerAddress, engineAddress, true)
}

func (w *engineWorld) mintStock(itemID *big.Int, quantity uint64) {
	w.stock.Mint(itemID, sellerAddress, quantity)
	w.stock.SetApprovalForAll(sellerAddress, engineAddress, true)
}

// fundBuyer mints tokens and approves the engine for the same amount.
func (w *engineWorld) fundBuyer(amount *big.Int) {
	w.token.Mint(buyerAddress, amount)
	w.token.Approve(buyerAddress, engineAddress, amount)
}

func validExpiry() time.Time {
	return time.Now().UTC().Add(2 * time.Hour)
}
