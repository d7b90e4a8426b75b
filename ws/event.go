package ws

// Op sabitleri — wire üzerindeki event türleri.
//
// Server → client: contract_* event'leri, bir sekmede yapılan değişikliğin
// diğer açık sekmelere anında yansımasını sağlar. Client → server yönünde
// sadece heartbeat vardır; tüm yazma işlemleri HTTP API üzerinden yapılır.
const (
	OpHeartbeat    = "heartbeat"
	OpHeartbeatAck = "heartbeat_ack"

	OpContractCreated = "contract_created"
	OpContractUpdated = "contract_updated"
	OpContractDeleted = "contract_deleted"
)

// Event, WebSocket üzerinden giden/gelen mesaj zarfı.
//
// Seq: Hub'ın her outbound event'e verdiği artan sayaç. Client bir boşluk
// görürse (ör. 5'ten 7'ye atlama) listesini HTTP'den yeniden çekebilir.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// ContractDeletedData, contract_deleted event'inin payload'u.
// Silinen kayıt artık yok — sadece ID gönderilir.
type ContractDeletedData struct {
	ID string `json:"id"`
}
