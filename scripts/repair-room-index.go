package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	roomKeyPrefix     = "battle_room:"
	unsettledIndexKey = "battle_room:unsettled"
)

// Just the fields that decide whether a room is waiting for settlement
type roomData struct {
	State   string `json:"state"`
	Winner  string `json:"winner"`
	Settled bool   `json:"settled"`
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning battle rooms...")

	indexed, err := client.SMembers(ctx, unsettledIndexKey).Result()
	if err != nil {
		log.Fatal("Failed to read unsettled index:", err)
	}
	inIndex := make(map[string]bool, len(indexed))
	for _, id := range indexed {
		inIndex[id] = true
	}

	iter := client.Scan(ctx, 0, roomKeyPrefix+"*", 0).Iterator()

	var corruptedKeys, missing []string
	pending := map[string]bool{}
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		id := strings.TrimPrefix(key, roomKeyPrefix)
		// Index keys share the prefix; room keys end in a 32 byte hex id
		if raw, err := hex.DecodeString(id); err != nil || len(raw) != 32 {
			continue
		}
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var room roomData
		if err := json.Unmarshal([]byte(data), &room); err != nil {
			fmt.Printf("✗ Corrupted JSON in %s\n", key)
			corruptedKeys = append(corruptedKeys, key)
			continue
		}

		if room.State == "completed" && room.Winner != "" && !room.Settled {
			pending[id] = true
			if !inIndex[id] {
				fmt.Printf("✗ %s is waiting for settlement but not indexed\n", id)
				missing = append(missing, id)
			}
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	var stale []string
	for id := range inIndex {
		if !pending[id] {
			fmt.Printf("✗ %s is indexed but does not need settlement\n", id)
			stale = append(stale, id)
		}
	}

	fmt.Printf("\nChecked %d rooms: %d corrupted, %d missing from index, %d stale in index\n",
		checkedCount, len(corruptedKeys), len(missing), len(stale))

	if len(corruptedKeys)+len(missing)+len(stale) == 0 {
		fmt.Println("Nothing to repair!")
		return
	}

	fmt.Print("\nRepair the index and DELETE corrupted rooms? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, id := range missing {
		if err := client.SAdd(ctx, unsettledIndexKey, id).Err(); err != nil {
			fmt.Printf("Failed to index %s: %v\n", id, err)
		}
	}
	for _, id := range stale {
		if err := client.SRem(ctx, unsettledIndexKey, id).Err(); err != nil {
			fmt.Printf("Failed to unindex %s: %v\n", id, err)
		}
	}
	for _, key := range corruptedKeys {
		if err := client.Del(ctx, key).Err(); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nRepair complete!")
}
