package systems

// DepositAgents marks the cell under each agent in [start, end).
func DepositAgents(f *Field, agents []Agent, start, end int) {
	for i := start; i < end; i++ {
		f.Deposit(agents[i].Pos)
	}
}
