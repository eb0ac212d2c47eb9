package domain

// ComputeResult builds the schedule for rec, solves it with finder from guess
// and assembles the result. Solver failures land in the IRR's failure branch;
// the disbursed and payback figures are always populated.
func ComputeResult(rec InvoiceRecord, finder RootFinder, guess float64) IRRResult {
	sched := BuildSchedule(rec)
	res := IRRResult{
		InvoiceAmount:   rec.Amount,
		DisbursedAmount: Disbursed(rec),
		ExpectedPayback: ExpectedPayback(rec),
	}

	rate, err := finder.Solve(XNPV, sched, guess)
	if err != nil {
		res.IRR = Failed(err)
		return res
	}
	res.IRR = Solved(rate)
	return res
}
