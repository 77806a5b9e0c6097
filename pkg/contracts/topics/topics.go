package topics

const (
	// Simulações de torneio
	SimulationRequested = "simulation_requested"
	SimulationCompleted = "simulation_completed"

	// Redis Pub/Sub para o websocket do predictor-service
	SimulationBroadcast = "simulation_completed_broadcast"
)
