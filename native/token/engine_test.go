package token

import (
	"errors"
	"math/big"
	"testing"

	"vibemarket/core/events"
	coretypes "vibemarket/core/types"
	"vibemarket/native/common"
)

type mockState struct {
	accounts map[[20]byte]*coretypes.Account
	curve    *CurveParameters
	supply   *big.Int
	reserve  *big.Int
	paused   map[string]bool

	snapshots []*mockState
}

func newMockState() *mockState {
	return &mockState{
		accounts: make(map[[20]byte]*coretypes.Account),
		supply:   big.NewInt(0),
		reserve:  big.NewInt(0),
		paused:   make(map[string]bool),
	}
}

func (m *mockState) copyState() *mockState {
	clone := newMockState()
	for addr, acc := range m.accounts {
		clone.accounts[addr] = acc.Clone()
	}
	if m.curve != nil {
		clone.curve = m.curve.Clone()
	}
	clone.supply = new(big.Int).Set(m.supply)
	clone.reserve = new(big.Int).Set(m.reserve)
	for module, paused := range m.paused {
		clone.paused[module] = paused
	}
	return clone
}

func (m *mockState) GetAccount(addr [20]byte) (*coretypes.Account, error) {
	if acc, ok := m.accounts[addr]; ok {
		return acc.Clone(), nil
	}
	return &coretypes.Account{BalanceNative: big.NewInt(0), BalanceVibe: big.NewInt(0)}, nil
}

func (m *mockState) PutAccount(addr [20]byte, account *coretypes.Account) error {
	m.accounts[addr] = account.Clone()
	return nil
}

func (m *mockState) CurveGet() (*CurveParameters, bool, error) {
	if m.curve == nil {
		return nil, false, nil
	}
	return m.curve.Clone(), true, nil
}

func (m *mockState) CurvePut(params *CurveParameters) error {
	m.curve = params.Clone()
	return nil
}

func (m *mockState) TokenSupply() (*big.Int, error) {
	return new(big.Int).Set(m.supply), nil
}

func (m *mockState) SetTokenSupply(supply *big.Int) error {
	m.supply = new(big.Int).Set(supply)
	return nil
}

func (m *mockState) TokenReserve() (*big.Int, error) {
	return new(big.Int).Set(m.reserve), nil
}

func (m *mockState) SetTokenReserve(reserve *big.Int) error {
	m.reserve = new(big.Int).Set(reserve)
	return nil
}

func (m *mockState) ModulePaused(module string) (bool, error) {
	return m.paused[module], nil
}

func (m *mockState) SetModulePaused(module string, paused bool) error {
	m.paused[module] = paused
	return nil
}

func (m *mockState) Snapshot() int {
	m.snapshots = append(m.snapshots, m.copyState())
	return len(m.snapshots) - 1
}

func (m *mockState) RevertToSnapshot(revision int) {
	if revision < 0 || revision >= len(m.snapshots) {
		return
	}
	restored := m.snapshots[revision]
	m.accounts = restored.accounts
	m.curve = restored.curve
	m.supply = restored.supply
	m.reserve = restored.reserve
	m.paused = restored.paused
	m.snapshots = m.snapshots[:revision]
}

var (
	testOwner  = [20]byte{0xAA}
	testBuyer  = [20]byte{0x01}
	testSeller = [20]byte{0x02}
)

// testCurve rises by one native unit per minted unit so series sums stay easy
// to verify by hand: price(s) = 100 + s.
func testCurve(cap int64) *CurveParameters {
	return &CurveParameters{
		Slope:        new(big.Int).Set(UNIT),
		InitialPrice: big.NewInt(100),
		Cap:          big.NewInt(cap),
	}
}

func newTestEngine(state *mockState) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetOwner(testOwner)
	return engine
}

func fund(state *mockState, addr [20]byte, native, vibe int64) {
	state.accounts[addr] = &coretypes.Account{
		BalanceNative: big.NewInt(native),
		BalanceVibe:   big.NewInt(vibe),
	}
}

func TestInitializeCurveDoesNotOverwrite(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	if err := engine.InitializeCurve(testCurve(1000)); err != nil {
		t.Fatalf("initialize curve: %v", err)
	}
	replacement := testCurve(5)
	if err := engine.InitializeCurve(replacement); err != nil {
		t.Fatalf("re-initialize curve: %v", err)
	}
	params, err := engine.CurveState()
	if err != nil {
		t.Fatalf("curve state: %v", err)
	}
	if params.Cap.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("expected original cap 1000, got %s", params.Cap)
	}
}

func TestInitializeCurveRejectsInvalidParameters(t *testing.T) {
	engine := newTestEngine(newMockState())
	cases := []*CurveParameters{
		nil,
		{Slope: nil, InitialPrice: big.NewInt(1), Cap: big.NewInt(1)},
		{Slope: big.NewInt(-1), InitialPrice: big.NewInt(1), Cap: big.NewInt(1)},
		{Slope: big.NewInt(1), InitialPrice: big.NewInt(-1), Cap: big.NewInt(1)},
		{Slope: big.NewInt(1), InitialPrice: big.NewInt(1), Cap: big.NewInt(0)},
	}
	for i, params := range cases {
		if err := engine.InitializeCurve(params); !errors.Is(err, ErrInvalidParameters) {
			t.Fatalf("case %d: expected ErrInvalidParameters, got %v", i, err)
		}
	}
}

func TestPriceRisesWithSupply(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	engine := newTestEngine(state)
	low, err := engine.Price(big.NewInt(0))
	if err != nil {
		t.Fatalf("price at zero: %v", err)
	}
	high, err := engine.Price(big.NewInt(250))
	if err != nil {
		t.Fatalf("price at 250: %v", err)
	}
	if low.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected base price 100, got %s", low)
	}
	if high.Cmp(big.NewInt(350)) != 0 {
		t.Fatalf("expected price 350 at supply 250, got %s", high)
	}
}

func TestBuyDebitsCostAndKeepsRefund(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	fund(state, testBuyer, 2000, 0)
	engine := newTestEngine(state)
	recorder := events.NewRecorder(8)
	engine.SetEmitter(recorder)

	// cost of the first ten units: 10*100 + 0+1+...+9 = 1045
	receipt, err := engine.Buy(testBuyer, big.NewInt(10), big.NewInt(1100))
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if receipt.Value.Cmp(big.NewInt(1045)) != 0 {
		t.Fatalf("expected cost 1045, got %s", receipt.Value)
	}
	if receipt.Refund.Cmp(big.NewInt(55)) != 0 {
		t.Fatalf("expected refund 55, got %s", receipt.Refund)
	}
	account := state.accounts[testBuyer]
	if account.BalanceNative.Cmp(big.NewInt(955)) != 0 {
		t.Fatalf("expected native balance 955, got %s", account.BalanceNative)
	}
	if account.BalanceVibe.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("expected token balance 10, got %s", account.BalanceVibe)
	}
	if state.supply.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("expected supply 10, got %s", state.supply)
	}
	if state.reserve.Cmp(big.NewInt(1045)) != 0 {
		t.Fatalf("expected reserve 1045, got %s", state.reserve)
	}
	records := recorder.Drain()
	if len(records) != 1 || records[0].Type != EventTypePurchased {
		t.Fatalf("expected purchase event, got %#v", records)
	}
	if records[0].Attributes["cost"] != "1045" {
		t.Fatalf("expected cost attribute 1045, got %s", records[0].Attributes["cost"])
	}
}

func TestBuyRejectsShortPayment(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	fund(state, testBuyer, 2000, 0)
	engine := newTestEngine(state)
	if _, err := engine.Buy(testBuyer, big.NewInt(10), big.NewInt(1044)); !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("expected ErrInsufficientPayment, got %v", err)
	}
	if state.supply.Sign() != 0 || state.reserve.Sign() != 0 {
		t.Fatalf("failed buy must not touch supply or reserve")
	}
}

func TestBuyRejectsInsufficientFunds(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	fund(state, testBuyer, 500, 0)
	engine := newTestEngine(state)
	if _, err := engine.Buy(testBuyer, big.NewInt(10), big.NewInt(1100)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestBuyEnforcesSupplyCap(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(5)
	fund(state, testBuyer, 10_000, 0)
	engine := newTestEngine(state)
	if _, err := engine.Buy(testBuyer, big.NewInt(6), big.NewInt(10_000)); !errors.Is(err, ErrSupplyCapExceeded) {
		t.Fatalf("expected ErrSupplyCapExceeded, got %v", err)
	}
	if _, err := engine.Buy(testBuyer, big.NewInt(5), big.NewInt(10_000)); err != nil {
		t.Fatalf("buy at exactly the cap: %v", err)
	}
	if _, err := engine.Buy(testBuyer, big.NewInt(1), big.NewInt(10_000)); !errors.Is(err, ErrSupplyCapExceeded) {
		t.Fatalf("expected ErrSupplyCapExceeded once capped, got %v", err)
	}
}

func TestBuyRejectsZeroAmount(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	engine := newTestEngine(state)
	if _, err := engine.Buy(testBuyer, big.NewInt(0), big.NewInt(100)); !errors.Is(err, ErrAmountZero) {
		t.Fatalf("expected ErrAmountZero, got %v", err)
	}
	if _, err := engine.Buy(testBuyer, nil, big.NewInt(100)); !errors.Is(err, ErrAmountZero) {
		t.Fatalf("expected ErrAmountZero for nil amount, got %v", err)
	}
}

func TestSellRoundTripIsValueNeutral(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	fund(state, testBuyer, 2000, 0)
	engine := newTestEngine(state)

	if _, err := engine.Buy(testBuyer, big.NewInt(10), big.NewInt(2000)); err != nil {
		t.Fatalf("buy: %v", err)
	}
	receipt, err := engine.Sell(testBuyer, big.NewInt(10))
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if receipt.Value.Cmp(big.NewInt(1045)) != 0 {
		t.Fatalf("expected payout 1045, got %s", receipt.Value)
	}
	account := state.accounts[testBuyer]
	if account.BalanceNative.Cmp(big.NewInt(2000)) != 0 {
		t.Fatalf("round trip must restore the native balance, got %s", account.BalanceNative)
	}
	if account.BalanceVibe.Sign() != 0 {
		t.Fatalf("expected zero token balance, got %s", account.BalanceVibe)
	}
	if state.supply.Sign() != 0 {
		t.Fatalf("expected zero supply, got %s", state.supply)
	}
	if state.reserve.Sign() != 0 {
		t.Fatalf("expected empty reserve, got %s", state.reserve)
	}
}

func TestSellRejectsInsufficientBalance(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	fund(state, testSeller, 0, 5)
	state.supply = big.NewInt(5)
	state.reserve = big.NewInt(510)
	engine := newTestEngine(state)
	if _, err := engine.Sell(testSeller, big.NewInt(6)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestSellRejectsDrainedReserve(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	fund(state, testSeller, 0, 10)
	state.supply = big.NewInt(10)
	state.reserve = big.NewInt(5)
	engine := newTestEngine(state)
	if _, err := engine.Sell(testSeller, big.NewInt(10)); !errors.Is(err, ErrInsufficientReserve) {
		t.Fatalf("expected ErrInsufficientReserve, got %v", err)
	}
	if state.reserve.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("failed sell must not touch the reserve")
	}
}

func TestPauseBlocksBuyAndSellOnly(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	fund(state, testBuyer, 2000, 0)
	engine := newTestEngine(state)

	if _, err := engine.Buy(testBuyer, big.NewInt(10), big.NewInt(2000)); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if err := engine.Pause(testOwner); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := engine.Buy(testBuyer, big.NewInt(1), big.NewInt(200)); !errors.Is(err, common.ErrModulePaused) {
		t.Fatalf("expected paused buy, got %v", err)
	}
	if _, err := engine.Sell(testBuyer, big.NewInt(1)); !errors.Is(err, common.ErrModulePaused) {
		t.Fatalf("expected paused sell, got %v", err)
	}
	if err := engine.Transfer(testBuyer, testSeller, big.NewInt(3)); err != nil {
		t.Fatalf("transfer must stay open while paused: %v", err)
	}
	if balance, err := engine.BalanceOf(testSeller); err != nil || balance.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("expected transferred balance 3, got %v (%v)", balance, err)
	}
	if err := engine.Unpause(testOwner); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if _, err := engine.Sell(testBuyer, big.NewInt(1)); err != nil {
		t.Fatalf("sell after unpause: %v", err)
	}
}

func TestPauseRequiresOwner(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	if err := engine.Pause(testBuyer); !errors.Is(err, common.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestTransferRejectsZeroRecipient(t *testing.T) {
	state := newMockState()
	fund(state, testBuyer, 0, 10)
	engine := newTestEngine(state)
	if err := engine.Transfer(testBuyer, [20]byte{}, big.NewInt(1)); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
	if err := engine.Transfer(testBuyer, testSeller, big.NewInt(11)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestUpdateCurveParametersGuardsCap(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	state.supply = big.NewInt(50)
	engine := newTestEngine(state)

	if err := engine.UpdateCurveParameters(testSeller, UNIT, big.NewInt(100), big.NewInt(500)); !errors.Is(err, common.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := engine.UpdateCurveParameters(testOwner, UNIT, big.NewInt(100), big.NewInt(49)); !errors.Is(err, ErrCapBelowSupply) {
		t.Fatalf("expected ErrCapBelowSupply, got %v", err)
	}
	if err := engine.UpdateCurveParameters(testOwner, UNIT, big.NewInt(100), big.NewInt(50)); err != nil {
		t.Fatalf("cap at exactly the supply must be accepted: %v", err)
	}
	params, err := engine.CurveState()
	if err != nil {
		t.Fatalf("curve state: %v", err)
	}
	if params.Cap.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected cap 50, got %s", params.Cap)
	}
}

func TestEmergencyWithdraw(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	state.reserve = big.NewInt(500)
	engine := newTestEngine(state)

	if err := engine.EmergencyWithdraw(testSeller, big.NewInt(100)); !errors.Is(err, common.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := engine.EmergencyWithdraw(testOwner, big.NewInt(600)); !errors.Is(err, ErrInsufficientReserve) {
		t.Fatalf("expected ErrInsufficientReserve, got %v", err)
	}
	if err := engine.EmergencyWithdraw(testOwner, big.NewInt(200)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if state.reserve.Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("expected reserve 300, got %s", state.reserve)
	}
	owner := state.accounts[testOwner]
	if owner.BalanceNative.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("expected owner credit 200, got %s", owner.BalanceNative)
	}
}

func TestBuyCostRisesWithSupply(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	fund(state, testBuyer, 100_000, 0)
	engine := newTestEngine(state)

	before, err := engine.BuyCost(big.NewInt(10))
	if err != nil {
		t.Fatalf("buy cost: %v", err)
	}
	if _, err := engine.Buy(testBuyer, big.NewInt(10), big.NewInt(100_000)); err != nil {
		t.Fatalf("buy: %v", err)
	}
	after, err := engine.BuyCost(big.NewInt(10))
	if err != nil {
		t.Fatalf("buy cost: %v", err)
	}
	if after.Cmp(before) <= 0 {
		t.Fatalf("cost of the same amount must rise with supply: %s then %s", before, after)
	}
}

func TestQuotesMatchExecution(t *testing.T) {
	state := newMockState()
	state.curve = testCurve(1000)
	fund(state, testBuyer, 100_000, 0)
	engine := newTestEngine(state)

	quote, err := engine.BuyCost(big.NewInt(25))
	if err != nil {
		t.Fatalf("buy cost: %v", err)
	}
	receipt, err := engine.Buy(testBuyer, big.NewInt(25), big.NewInt(100_000))
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if quote.Cmp(receipt.Value) != 0 {
		t.Fatalf("quote %s must match executed cost %s", quote, receipt.Value)
	}
	payout, err := engine.SellValue(big.NewInt(25))
	if err != nil {
		t.Fatalf("sell value: %v", err)
	}
	if payout.Cmp(receipt.Value) != 0 {
		t.Fatalf("immediate sell quote %s must mirror the buy cost %s", payout, receipt.Value)
	}
}
