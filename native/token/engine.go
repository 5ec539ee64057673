package token

import (
	"errors"
	"math/big"

	coretypes "vibemarket/core/types"

	"vibemarket/core/events"
	"vibemarket/native/common"
)

var (
	errNilState           = errors.New("token engine: state not configured")
	errCurveNotConfigured = errors.New("token engine: curve not configured")
)

type engineState interface {
	GetAccount(addr [20]byte) (*coretypes.Account, error)
	PutAccount(addr [20]byte, account *coretypes.Account) error
	CurveGet() (*CurveParameters, bool, error)
	CurvePut(params *CurveParameters) error
	TokenSupply() (*big.Int, error)
	SetTokenSupply(supply *big.Int) error
	TokenReserve() (*big.Int, error)
	SetTokenReserve(reserve *big.Int) error
	ModulePaused(module string) (bool, error)
	SetModulePaused(module string, paused bool) error
	Snapshot() int
	RevertToSnapshot(revision int)
}

// Engine maintains the fungible ledger whose issuance price follows the
// bonding curve, together with the reserve backing the outstanding supply.
// The pause breaker blocks Buy and Sell only; reads and owner actions stay
// available.
type Engine struct {
	state   engineState
	emitter events.Emitter
	owner   [20]byte
}

// NewEngine creates a ledger engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetOwner configures the administrative authority.
func (e *Engine) SetOwner(owner [20]byte) { e.owner = owner }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func ensureAccount(account *coretypes.Account) *coretypes.Account {
	if account == nil {
		return &coretypes.Account{BalanceNative: big.NewInt(0), BalanceVibe: big.NewInt(0)}
	}
	if account.BalanceNative == nil {
		account.BalanceNative = big.NewInt(0)
	}
	if account.BalanceVibe == nil {
		account.BalanceVibe = big.NewInt(0)
	}
	return account
}

func (e *Engine) loadAccount(addr [20]byte) (*coretypes.Account, error) {
	account, err := e.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return ensureAccount(account), nil
}

func validateParameters(params *CurveParameters) error {
	if params == nil {
		return ErrInvalidParameters
	}
	if params.Slope == nil || params.Slope.Sign() < 0 {
		return ErrInvalidParameters
	}
	if params.InitialPrice == nil || params.InitialPrice.Sign() < 0 {
		return ErrInvalidParameters
	}
	if params.Cap == nil || params.Cap.Sign() <= 0 {
		return ErrInvalidParameters
	}
	return nil
}

// InitializeCurve writes the genesis curve parameters unless a curve is
// already configured.
func (e *Engine) InitializeCurve(params *CurveParameters) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := validateParameters(params); err != nil {
		return err
	}
	if _, ok, err := e.state.CurveGet(); err != nil {
		return err
	} else if ok {
		return nil
	}
	return e.state.CurvePut(params.Clone())
}

func (e *Engine) curve() (*CurveParameters, error) {
	params, ok, err := e.state.CurveGet()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errCurveNotConfigured
	}
	return params, nil
}

func priceAt(params *CurveParameters, supply *big.Int) *big.Int {
	premium := new(big.Int).Mul(params.Slope, supply)
	premium.Div(premium, UNIT)
	return premium.Add(premium, params.InitialPrice)
}

// seriesCost is the closed-form arithmetic series over the per-unit price:
// amount*price(start) + slope*amount*(amount-1)/2/UNIT. Buys walk the series
// up from the current supply and sells walk the mirror range down, so an
// immediate round trip is value neutral and the reserve cannot be drained
// below zero by sells.
func seriesCost(params *CurveParameters, start, amount *big.Int) *big.Int {
	cost := new(big.Int).Mul(amount, priceAt(params, start))
	tri := new(big.Int).Sub(amount, big.NewInt(1))
	tri.Mul(tri, amount)
	tri.Div(tri, big.NewInt(2))
	tri.Mul(tri, params.Slope)
	tri.Div(tri, UNIT)
	return cost.Add(cost, tri)
}

// Price returns the marginal issuance price at the supplied supply level.
func (e *Engine) Price(supply *big.Int) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	params, err := e.curve()
	if err != nil {
		return nil, err
	}
	return priceAt(params, cloneBigInt(supply)), nil
}

// BuyCost quotes the cost of minting amount units at the current supply.
func (e *Engine) BuyCost(amount *big.Int) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrAmountZero
	}
	params, err := e.curve()
	if err != nil {
		return nil, err
	}
	supply, err := e.state.TokenSupply()
	if err != nil {
		return nil, err
	}
	return seriesCost(params, supply, cloneBigInt(amount)), nil
}

// SellValue quotes the reserve payout for redeeming amount units at the
// current supply.
func (e *Engine) SellValue(amount *big.Int) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrAmountZero
	}
	params, err := e.curve()
	if err != nil {
		return nil, err
	}
	supply, err := e.state.TokenSupply()
	if err != nil {
		return nil, err
	}
	amt := cloneBigInt(amount)
	if supply.Cmp(amt) < 0 {
		return nil, ErrInsufficientBalance
	}
	start := new(big.Int).Sub(supply, amt)
	return seriesCost(params, start, amt), nil
}

// Buy mints amount units to the caller against the attached payment. The cost
// is debited from the caller's native balance and moved into the reserve; the
// unspent remainder of the payment never leaves the caller's account.
func (e *Engine) Buy(caller [20]byte, amount, payment *big.Int) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.state, common.ModuleToken); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrAmountZero
	}
	params, err := e.curve()
	if err != nil {
		return nil, err
	}
	supply, err := e.state.TokenSupply()
	if err != nil {
		return nil, err
	}
	amt := cloneBigInt(amount)
	nextSupply := new(big.Int).Add(supply, amt)
	if nextSupply.Cmp(params.Cap) > 0 {
		return nil, ErrSupplyCapExceeded
	}
	cost := seriesCost(params, supply, amt)
	pay := cloneBigInt(payment)
	if pay.Cmp(cost) < 0 {
		return nil, ErrInsufficientPayment
	}
	account, err := e.loadAccount(caller)
	if err != nil {
		return nil, err
	}
	if account.BalanceNative.Cmp(pay) < 0 {
		return nil, ErrInsufficientFunds
	}
	reserve, err := e.state.TokenReserve()
	if err != nil {
		return nil, err
	}

	revision := e.state.Snapshot()
	account.BalanceNative = new(big.Int).Sub(account.BalanceNative, cost)
	account.BalanceVibe = new(big.Int).Add(account.BalanceVibe, amt)
	if err := e.state.PutAccount(caller, account); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	if err := e.state.SetTokenSupply(nextSupply); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	if err := e.state.SetTokenReserve(new(big.Int).Add(reserve, cost)); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}

	refund := new(big.Int).Sub(pay, cost)
	e.emit(newPurchasedEvent(caller, cost, amt))
	return &Receipt{Amount: amt, Value: cost, Refund: refund}, nil
}

// Sell redeems amount units from the caller, paying the mirror-series value
// out of the reserve.
func (e *Engine) Sell(caller [20]byte, amount *big.Int) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.state, common.ModuleToken); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrAmountZero
	}
	params, err := e.curve()
	if err != nil {
		return nil, err
	}
	account, err := e.loadAccount(caller)
	if err != nil {
		return nil, err
	}
	amt := cloneBigInt(amount)
	if account.BalanceVibe.Cmp(amt) < 0 {
		return nil, ErrInsufficientBalance
	}
	supply, err := e.state.TokenSupply()
	if err != nil {
		return nil, err
	}
	if supply.Cmp(amt) < 0 {
		return nil, ErrInsufficientBalance
	}
	start := new(big.Int).Sub(supply, amt)
	value := seriesCost(params, start, amt)
	reserve, err := e.state.TokenReserve()
	if err != nil {
		return nil, err
	}
	if reserve.Cmp(value) < 0 {
		return nil, ErrInsufficientReserve
	}

	revision := e.state.Snapshot()
	account.BalanceVibe = new(big.Int).Sub(account.BalanceVibe, amt)
	account.BalanceNative = new(big.Int).Add(account.BalanceNative, value)
	if err := e.state.PutAccount(caller, account); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	if err := e.state.SetTokenSupply(start); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	if err := e.state.SetTokenReserve(new(big.Int).Sub(reserve, value)); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}

	e.emit(newSoldEvent(caller, amt, value))
	return &Receipt{Amount: amt, Value: value, Refund: big.NewInt(0)}, nil
}

// Transfer moves ledger tokens between accounts without touching the curve or
// the reserve.
func (e *Engine) Transfer(from, to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrAmountZero
	}
	if to == ([20]byte{}) {
		return ErrInvalidRecipient
	}
	fromAcc, err := e.loadAccount(from)
	if err != nil {
		return err
	}
	amt := cloneBigInt(amount)
	if fromAcc.BalanceVibe.Cmp(amt) < 0 {
		return ErrInsufficientBalance
	}
	toAcc, err := e.loadAccount(to)
	if err != nil {
		return err
	}
	revision := e.state.Snapshot()
	fromAcc.BalanceVibe = new(big.Int).Sub(fromAcc.BalanceVibe, amt)
	toAcc.BalanceVibe = new(big.Int).Add(toAcc.BalanceVibe, amt)
	if err := e.state.PutAccount(from, fromAcc); err != nil {
		e.state.RevertToSnapshot(revision)
		return err
	}
	if err := e.state.PutAccount(to, toAcc); err != nil {
		e.state.RevertToSnapshot(revision)
		return err
	}
	e.emit(newTransferEvent(from, to, amt))
	return nil
}

// UpdateCurveParameters replaces the curve. The new cap may not fall below the
// outstanding supply.
func (e *Engine) UpdateCurveParameters(caller [20]byte, slope, initialPrice, cap *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireOwner(e.owner, caller); err != nil {
		return err
	}
	params := &CurveParameters{Slope: slope, InitialPrice: initialPrice, Cap: cap}
	if err := validateParameters(params); err != nil {
		return err
	}
	supply, err := e.state.TokenSupply()
	if err != nil {
		return err
	}
	if params.Cap.Cmp(supply) < 0 {
		return ErrCapBelowSupply
	}
	if err := e.state.CurvePut(params.Clone()); err != nil {
		return err
	}
	e.emit(newCurveUpdatedEvent(params))
	return nil
}

// EmergencyWithdraw moves part of the reserve to the owner's native balance.
func (e *Engine) EmergencyWithdraw(caller [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireOwner(e.owner, caller); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrAmountZero
	}
	reserve, err := e.state.TokenReserve()
	if err != nil {
		return err
	}
	amt := cloneBigInt(amount)
	if reserve.Cmp(amt) < 0 {
		return ErrInsufficientReserve
	}
	account, err := e.loadAccount(e.owner)
	if err != nil {
		return err
	}
	revision := e.state.Snapshot()
	account.BalanceNative = new(big.Int).Add(account.BalanceNative, amt)
	if err := e.state.PutAccount(e.owner, account); err != nil {
		e.state.RevertToSnapshot(revision)
		return err
	}
	if err := e.state.SetTokenReserve(new(big.Int).Sub(reserve, amt)); err != nil {
		e.state.RevertToSnapshot(revision)
		return err
	}
	e.emit(newWithdrawEvent(caller, amt))
	return nil
}

// BalanceOf reports the ledger-token balance of the handle.
func (e *Engine) BalanceOf(addr [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	account, err := e.loadAccount(addr)
	if err != nil {
		return nil, err
	}
	return cloneBigInt(account.BalanceVibe), nil
}

// TotalSupply reports the outstanding ledger-token supply.
func (e *Engine) TotalSupply() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	supply, err := e.state.TokenSupply()
	if err != nil {
		return nil, err
	}
	return cloneBigInt(supply), nil
}

// ReserveBalance reports the reserve backing the outstanding supply.
func (e *Engine) ReserveBalance() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	reserve, err := e.state.TokenReserve()
	if err != nil {
		return nil, err
	}
	return cloneBigInt(reserve), nil
}

// CurveState returns a copy of the active curve parameters.
func (e *Engine) CurveState() (*CurveParameters, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	params, err := e.curve()
	if err != nil {
		return nil, err
	}
	return params.Clone(), nil
}

// Paused reports the module breaker state.
func (e *Engine) Paused() (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	return e.state.ModulePaused(common.ModuleToken)
}

// Pause engages the breaker gating Buy and Sell.
func (e *Engine) Pause(caller [20]byte) error {
	return e.setPaused(caller, true)
}

// Unpause clears the breaker.
func (e *Engine) Unpause(caller [20]byte) error {
	return e.setPaused(caller, false)
}

func (e *Engine) setPaused(caller [20]byte, paused bool) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireOwner(e.owner, caller); err != nil {
		return err
	}
	if err := e.state.SetModulePaused(common.ModuleToken, paused); err != nil {
		return err
	}
	e.emit(newPauseEvent(paused, caller))
	return nil
}
