package batch

// Batch and payroll statuses form two closed sets. Every status change
// goes through CanTransition against the tables below; anything not in
// a table is an illegal transition, there are no conditionals elsewhere.

const (
	BatchStatusReady      = "READY"
	BatchStatusCalculated = "CALCULATED"
	BatchStatusConfirmed  = "CONFIRMED"
	BatchStatusPaid       = "PAID"
)

const (
	PayrollStatusReady      = "READY"
	PayrollStatusCalculated = "CALCULATED"
	PayrollStatusFailed     = "FAILED"
	PayrollStatusConfirmed  = "CONFIRMED"
	PayrollStatusPaid       = "PAID"
)

const (
	ItemTypeAllowance = "ALLOWANCE"
	ItemTypeDeduction = "DEDUCTION"

	ItemCodeOvertime = "OVERTIME"
)

var batchTransitions = map[string]map[string]bool{
	BatchStatusReady:      {BatchStatusCalculated: true},
	BatchStatusCalculated: {BatchStatusConfirmed: true},
	BatchStatusConfirmed:  {BatchStatusPaid: true},
	BatchStatusPaid:       {},
}

var payrollTransitions = map[string]map[string]bool{
	PayrollStatusReady:      {PayrollStatusCalculated: true, PayrollStatusFailed: true},
	PayrollStatusCalculated: {PayrollStatusCalculated: true, PayrollStatusFailed: true, PayrollStatusConfirmed: true},
	PayrollStatusFailed:     {PayrollStatusCalculated: true, PayrollStatusFailed: true},
	PayrollStatusConfirmed:  {PayrollStatusPaid: true},
	PayrollStatusPaid:       {},
}

// calculableBatchStatuses lists the batch states in which a calculation
// run may start. A re-run from CALCULATED stays in CALCULATED.
var calculableBatchStatuses = map[string]bool{
	BatchStatusReady:      true,
	BatchStatusCalculated: true,
}

func CanTransitionBatch(from, to string) bool {
	return batchTransitions[from][to]
}

func CanTransitionPayroll(from, to string) bool {
	return payrollTransitions[from][to]
}

func CanCalculate(batchStatus string) bool {
	return calculableBatchStatuses[batchStatus]
}

// IsLockedStatus reports whether a payroll in this status is immutable
// to recalculation.
func IsLockedStatus(status string) bool {
	return status == PayrollStatusConfirmed || status == PayrollStatusPaid
}
