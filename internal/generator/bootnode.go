package generator

import (
	"fmt"
	"strconv"
	"strings"
)

// GenerateBootnodeAddr builds a libp2p multiaddress for a node acting as
// a bootnode (§4.3). If args contains a "--listen-addr <maddr>" pair,
// its IP and port segments are rewritten in place; otherwise a plain
// "/ip4/<ip>/tcp/<port>/ws" address is emitted. The peer id is always
// appended, and a WebRTC certificate hash after it when p2pCert is set.
func GenerateBootnodeAddr(peerID, ip string, port int, args []string, p2pCert string) string {
	base := listenAddrFromArgs(args, ip, port)

	addr := fmt.Sprintf("%s/p2p/%s", base, peerID)
	if p2pCert != "" {
		addr = fmt.Sprintf("%s/certhash/%s", addr, p2pCert)
	}
	return addr
}

func listenAddrFromArgs(args []string, ip string, port int) string {
	for i, a := range args {
		if a == "--listen-addr" && i+1 < len(args) {
			return rewriteMultiaddr(args[i+1], ip, port)
		}
		if strings.HasPrefix(a, "--listen-addr=") {
			return rewriteMultiaddr(strings.TrimPrefix(a, "--listen-addr="), ip, port)
		}
	}
	return fmt.Sprintf("/ip4/%s/tcp/%d/ws", ip, port)
}

// rewriteMultiaddr replaces the ip4/ip6 and tcp/udp segments of maddr
// with the bound ip and port, preserving any other segments (e.g. /ws,
// /wss, /quic-v1) verbatim.
func rewriteMultiaddr(maddr, ip string, port int) string {
	parts := strings.Split(strings.TrimPrefix(maddr, "/"), "/")
	var out []string
	i := 0
	for i < len(parts) {
		switch parts[i] {
		case "ip4", "ip6":
			out = append(out, parts[i], ip)
			i += 2
		case "tcp", "udp":
			out = append(out, parts[i], strconv.Itoa(port))
			i += 2
		default:
			out = append(out, parts[i])
			i++
		}
	}
	return "/" + strings.Join(out, "/")
}
