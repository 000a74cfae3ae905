package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"
)

type AnyEvent map[string]any

// Tails the catalog event feed over TCP and prints each event, reconnecting
// on drop. Useful for watching a scrape run discover games.
func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "live feed TCP address")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	flag.Parse()

	for {
		if err := run(*addr, *pretty); err != nil {
			log.Printf("[watch] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[watch] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}

		var ev AnyEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, err := json.MarshalIndent(ev, "", "  ")
		if err != nil {
			fmt.Println(string(line))
			continue
		}
		fmt.Fprintln(os.Stdout, string(b))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return fmt.Errorf("connection closed")
}
