package database

import (
	"database/sql"
	"os"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
)

type Service struct {
	db         *sql.DB
	m          *sync.Mutex
	table_name string
}

var (
	tableName  = "blackjack_rounds"
	dbInstance *Service
)

func New() Service {
	path := os.Getenv("BLACKJACK_DB_PATH")
	if path == "" {
		path = "./blackjack.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		panic(err)
	}

	sqlStmt := `
	create table if not exists blackjack_rounds (
		id string not null primary key,
		created_at string,
		player string,
		hands string,
		dealer string,
		delta real,
		score real
	);
	`
	_, err = db.Exec(sqlStmt)
	if err != nil {
		panic(err)
	}

	dbInstance = &Service{
		db:         db,
		table_name: tableName,
		m:          &sync.Mutex{},
	}

	return *dbInstance
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) TableName() string {
	return s.table_name
}

func (s *Service) GetAll() ([]RoundResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT * FROM " + s.table_name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []RoundResult
	for rows.Next() {
		var result RoundResult
		if err := rows.Scan(
			&result.ID,
			&result.CreatedAt,
			&result.Player,
			&result.Hands,
			&result.Dealer,
			&result.Delta,
			&result.Score); err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *Service) GetByID(id string) (RoundResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result RoundResult
	err := s.db.QueryRow("SELECT * FROM "+s.table_name+" WHERE id = ?", id).Scan(
		&result.ID,
		&result.CreatedAt,
		&result.Player,
		&result.Hands,
		&result.Dealer,
		&result.Delta,
		&result.Score)
	if err != nil {
		return RoundResult{}, err
	}
	return result, nil
}

func (s *Service) Insert(result RoundResult) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec("INSERT INTO "+s.table_name+
		" (id, created_at, player, hands, dealer, delta, score) VALUES (?, ?, ?, ?, ?, ?, ?)",
		result.ID,
		result.CreatedAt,
		result.Player,
		result.Hands,
		result.Dealer,
		result.Delta,
		result.Score)

	if err != nil {
		return err
	}

	return nil
}

func (s *Service) GetByPlayer(player string) ([]RoundResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT * FROM "+s.table_name+" WHERE player = ?", player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []RoundResult
	for rows.Next() {
		var result RoundResult
		if err := rows.Scan(
			&result.ID,
			&result.CreatedAt,
			&result.Player,
			&result.Hands,
			&result.Dealer,
			&result.Delta,
			&result.Score); err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, sql.ErrNoRows // No results found
	}

	return results, nil
}
