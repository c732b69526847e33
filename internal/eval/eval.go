// Package eval computes static position evaluations: material, piece-square
// placement, pawn structure, king safety, mobility and a handful of other
// positional heuristics, tapered between a middlegame and an endgame weight
// set by the game-stage counter.
package eval

import "github.com/alex65536/sofcheck-sub000/internal/board"

// Evaluate returns the static evaluation of b from the side to move's
// perspective, in centipawns.
func Evaluate(b *board.Board, pc *PawnCache) int {
	tag := From(b)

	total := tag.PSQ
	total = total.add(evaluatePassedPawns(b))
	total = total.add(evaluateMobility(b))
	total = total.add(MakeScore(int16(evaluateKingSafety(b)), 0))
	total = total.add(MakeScore(int16(evaluateKingTropism(b)), 0))
	total = total.add(evaluateBishopPair(b))
	total = total.add(evaluateRooksOnFiles(b))
	total = total.add(evaluatePieceCoordination(b))
	total = total.add(evaluatePawnStructure(b, pc))
	total = total.add(evaluateOutposts(b))
	total = total.add(evaluateThreats(b))
	total = total.add(MakeScore(int16(evaluateSpace(b)), 0))
	total = total.add(evaluateTrappedPieces(b))

	score := Mix(total, tag.Stage) + tempoBonus

	if b.SideToMove == board.Black {
		return -score
	}
	return score
}

// EvaluateMaterial returns just the material balance, a cheap substitute
// for Evaluate where a full positional score is not needed.
func EvaluateMaterial(b *board.Board) int {
	score := 0
	for p := board.Pawn; p < board.NoPiece; p++ {
		if p == board.King {
			continue
		}
		score += b.Pieces[board.White][p].PopCount() * board.PieceValue[p]
		score -= b.Pieces[board.Black][p].PopCount() * board.PieceValue[p]
	}
	if b.SideToMove == board.Black {
		return -score
	}
	return score
}

// IsEndgame reports whether b has reached the endgame phase: no queens on
// the board, or very little non-pawn material left for both sides.
func IsEndgame(b *board.Board) bool {
	wq := b.Pieces[board.White][board.Queen].PopCount()
	bq := b.Pieces[board.Black][board.Queen].PopCount()
	if wq == 0 && bq == 0 {
		return true
	}
	wMinor := b.Pieces[board.White][board.Knight].PopCount() +
		b.Pieces[board.White][board.Bishop].PopCount() + b.Pieces[board.White][board.Rook].PopCount()
	bMinor := b.Pieces[board.Black][board.Knight].PopCount() +
		b.Pieces[board.Black][board.Bishop].PopCount() + b.Pieces[board.Black][board.Rook].PopCount()
	return wq+bq <= 1 && wMinor+bMinor <= 4
}

func isPassedPawn(b *board.Board, sq board.Square, c board.Color) bool {
	file := sq.File()
	enemyPawns := b.Pieces[c.Other()][board.Pawn]

	fileMask := board.FileMask[file]
	if file > 0 {
		fileMask |= board.FileMask[file-1]
	}
	if file < 7 {
		fileMask |= board.FileMask[file+1]
	}

	var frontMask board.Bitboard
	if c == board.White {
		frontMask = board.SquareBB(sq).NorthFill() &^ board.SquareBB(sq)
	} else {
		frontMask = board.SquareBB(sq).SouthFill() &^ board.SquareBB(sq)
	}

	return enemyPawns&fileMask&frontMask == 0
}

func chebyshevDistance(a, b board.Square) int {
	df := a.File() - b.File()
	if df < 0 {
		df = -df
	}
	dr := a.ChessRank() - b.ChessRank()
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func evaluatePassedPawns(b *board.Board) ScorePair {
	var total ScorePair
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		enemy := c.Other()
		friendlyPawns := b.Pieces[c][board.Pawn]
		friendlyKing := b.KingSquare[c]
		enemyKing := b.KingSquare[enemy]

		pawns := friendlyPawns
		for pawns != 0 {
			sq := pawns.PopLSB()
			if !isPassedPawn(b, sq, c) {
				continue
			}

			relRank := sq.RelativeRank(c)
			file := sq.File()
			bonus := passedPawnBonus[relRank]
			egExtra := 0

			var promoSq board.Square
			if c == board.White {
				promoSq = board.NewSquare(file, 7)
			} else {
				promoSq = board.NewSquare(file, 0)
			}

			friendlyDist := chebyshevDistance(friendlyKing, sq)
			egExtra += kingDistanceBonus[7-minInt(friendlyDist, 7)]
			enemyDistToPromo := chebyshevDistance(enemyKing, promoSq)
			egExtra += kingDistanceBonus[minInt(enemyDistToPromo, 7)]

			if board.PawnAttacks(sq, enemy)&friendlyPawns != 0 {
				bonus += passedPawnProtectedBonus
			}

			var adjacent board.Bitboard
			if file > 0 {
				adjacent |= board.FileMask[file-1]
			}
			if file < 7 {
				adjacent |= board.FileMask[file+1]
			}
			for temp := friendlyPawns & adjacent; temp != 0; {
				connSq := temp.PopLSB()
				if isPassedPawn(b, connSq, c) {
					bonus += passedPawnConnectedBonus
					break
				}
			}

			var front board.Bitboard
			if c == board.White {
				front = board.SquareBB(sq).NorthFill() &^ board.SquareBB(sq)
			} else {
				front = board.SquareBB(sq).SouthFill() &^ board.SquareBB(sq)
			}
			front &= board.FileMask[file]
			pathClear := front&b.AllOccupied == 0
			if pathClear {
				bonus += passedPawnFreePathBonus
			}

			if pathClear && relRank >= 4 {
				squaresToPromo := 7 - relRank
				enemyDistToPawn := chebyshevDistance(enemyKing, sq)
				tempo := 0
				if b.SideToMove == c {
					tempo = 1
				}
				if enemyDistToPawn > squaresToPromo+1-tempo {
					egExtra += passedPawnUnstoppableEg
				}
			}

			total = total.add(MakeScore(int16(sign*bonus), int16(sign*(bonus*3/2+egExtra))))
		}
	}
	return total
}

func evaluateMobility(b *board.Board) ScorePair {
	var total ScorePair
	occupied := b.AllOccupied

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		enemyPawns := b.Pieces[c.Other()][board.Pawn]
		var unsafe board.Bitboard
		if c == board.White {
			unsafe = enemyPawns.SouthEast() | enemyPawns.SouthWest()
		} else {
			unsafe = enemyPawns.NorthEast() | enemyPawns.NorthWest()
		}
		blocked := unsafe | b.Occupied[c]

		add := func(p board.Piece, attacks board.Bitboard) {
			count := (attacks &^ blocked).PopCount()
			total = total.add(MakeScore(
				int16(sign*mobilityMg[p]*count), int16(sign*mobilityEg[p]*count)))
		}

		for knights := b.Pieces[c][board.Knight]; knights != 0; {
			sq := knights.PopLSB()
			add(board.Knight, board.KnightAttacks(sq))
		}
		for bishops := b.Pieces[c][board.Bishop]; bishops != 0; {
			sq := bishops.PopLSB()
			add(board.Bishop, board.BishopAttacks(sq, occupied))
		}
		for rooks := b.Pieces[c][board.Rook]; rooks != 0; {
			sq := rooks.PopLSB()
			add(board.Rook, board.RookAttacks(sq, occupied))
		}
		for queens := b.Pieces[c][board.Queen]; queens != 0; {
			sq := queens.PopLSB()
			add(board.Queen, board.QueenAttacks(sq, occupied))
		}
	}
	return total
}

func evaluateKingSafety(b *board.Board) int {
	var score int
	occupied := b.AllOccupied

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		kingSq := b.KingSquare[c]
		kingFile := kingSq.File()
		kingZone := board.KingAttacks(kingSq) | board.SquareBB(kingSq)
		if c == board.White {
			kingZone |= kingZone.North()
		} else {
			kingZone |= kingZone.South()
		}

		enemy := c.Other()
		attackerCount, attackWeight := 0, 0

		countAttacks := func(p board.Piece, attacks board.Bitboard) {
			if attacks&kingZone != 0 {
				attackerCount++
				attackWeight += attackerWeight[p]
			}
		}
		for temp := b.Pieces[enemy][board.Knight]; temp != 0; {
			sq := temp.PopLSB()
			countAttacks(board.Knight, board.KnightAttacks(sq))
		}
		for temp := b.Pieces[enemy][board.Bishop]; temp != 0; {
			sq := temp.PopLSB()
			countAttacks(board.Bishop, board.BishopAttacks(sq, occupied))
		}
		for temp := b.Pieces[enemy][board.Rook]; temp != 0; {
			sq := temp.PopLSB()
			countAttacks(board.Rook, board.RookAttacks(sq, occupied))
		}
		for temp := b.Pieces[enemy][board.Queen]; temp != 0; {
			sq := temp.PopLSB()
			countAttacks(board.Queen, board.QueenAttacks(sq, occupied))
		}

		if attackerCount >= 2 {
			attackWeight = attackWeight * attackerCount / 2
		}
		score -= sign * attackWeight

		ownPawns := b.Pieces[c][board.Pawn]
		enemyFilePawns := b.Pieces[enemy][board.Pawn]

		for f := kingFile - 1; f <= kingFile+1; f++ {
			if f < 0 || f > 7 {
				continue
			}
			filePawns := ownPawns & board.FileMask[f]
			enemyOnFile := enemyFilePawns & board.FileMask[f]

			shieldRank := 1
			if c == board.Black {
				shieldRank = 6
			}
			shieldMask := board.FileMask[f] & board.ChessRankMask[shieldRank]
			if ownPawns&shieldMask != 0 {
				score += sign * pawnShieldBonus
			} else if filePawns == 0 {
				score += sign * pawnShieldMissing
			}

			if filePawns == 0 && enemyOnFile == 0 {
				score += sign * openFileNearKing
			} else if filePawns == 0 {
				score += sign * semiOpenFileNearKing
			}
		}
	}
	return score
}

func evaluateKingTropism(b *board.Board) int {
	var score int
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		enemyKing := b.KingSquare[c.Other()]
		for p := board.Knight; p <= board.Queen; p++ {
			for pieces := b.Pieces[c][p]; pieces != 0; {
				sq := pieces.PopLSB()
				dist := chebyshevDistance(sq, enemyKing)
				if dist < 7 {
					score += sign * tropismWeight[p] * (7 - dist)
				}
			}
		}
	}
	return score
}

func evaluateBishopPair(b *board.Board) ScorePair {
	var total ScorePair
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		if b.Pieces[c][board.Bishop].PopCount() >= 2 {
			total = total.add(MakeScore(int16(sign*bishopPairMg), int16(sign*bishopPairEg)))
		}
	}
	return total
}

func evaluateRooksOnFiles(b *board.Board) ScorePair {
	var total ScorePair
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		ownPawns := b.Pieces[c][board.Pawn]
		enemyPawns := b.Pieces[c.Other()][board.Pawn]
		for rooks := b.Pieces[c][board.Rook]; rooks != 0; {
			sq := rooks.PopLSB()
			fileMask := board.FileMask[sq.File()]
			hasOwn := ownPawns&fileMask != 0
			hasEnemy := enemyPawns&fileMask != 0
			if !hasOwn {
				if !hasEnemy {
					total = total.add(MakeScore(int16(sign*rookOpenFileMg), int16(sign*rookOpenFileEg)))
				} else {
					total = total.add(MakeScore(int16(sign*rookSemiOpenFileMg), int16(sign*rookSemiOpenFileEg)))
				}
			}
		}
	}
	return total
}

func evaluatePawnStructure(b *board.Board, pc *PawnCache) ScorePair {
	if pc != nil {
		if v, ok := pc.Probe(b); ok {
			return MakeScore(v.Score, v.Score)
		}
	}

	mg, eg := rawPawnStructure(b)
	if pc != nil {
		open, whiteOnly, blackOnly := fileMasks(b)
		pc.Store(b, PawnCacheValue{
			OpenFiles:      open,
			WhiteOnlyFiles: whiteOnly,
			BlackOnlyFiles: blackOnly,
			Score:          int16(mg),
		})
	}
	return MakeScore(int16(mg), int16(eg))
}

func rawPawnStructure(b *board.Board) (mg, eg int) {
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		allPawns := b.Pieces[c][board.Pawn]

		for pawns := allPawns; pawns != 0; {
			sq := pawns.PopLSB()
			file := sq.File()
			fileMask := board.FileMask[file]

			pawnsOnFile := allPawns & fileMask
			if pawnsOnFile.PopCount() > 1 {
				var forward board.Square
				if c == board.White {
					forward = pawnsOnFile.MSB()
				} else {
					forward = pawnsOnFile.LSB()
				}
				if sq == forward {
					mg += sign * doubledPawnMg
					eg += sign * doubledPawnEg
				}
			}

			var adjacent board.Bitboard
			if file > 0 {
				adjacent |= board.FileMask[file-1]
			}
			if file < 7 {
				adjacent |= board.FileMask[file+1]
			}
			if allPawns&adjacent == 0 {
				mg += sign * isolatedPawnMg
				eg += sign * isolatedPawnEg
				continue
			}

			relRank := sq.RelativeRank(c)
			if relRank > 1 {
				var behind board.Bitboard
				if c == board.White {
					for r := 0; r < sq.ChessRank(); r++ {
						behind |= board.ChessRankMask[r]
					}
				} else {
					for r := sq.ChessRank() + 1; r < 8; r++ {
						behind |= board.ChessRankMask[r]
					}
				}
				adjacentPawns := allPawns & adjacent
				if adjacentPawns != 0 && adjacentPawns&behind == adjacentPawns {
					continue
				}

				var stopSq board.Square
				if c == board.White {
					stopSq = sq - 8
				} else {
					stopSq = sq + 8
				}
				if stopSq.IsValid() {
					enemyPawns := b.Pieces[c.Other()][board.Pawn]
					if enemyPawns&board.PawnAttacks(stopSq, c) != 0 {
						mg += sign * backwardPawnMg
						eg += sign * backwardPawnEg
					}
				}
			}
		}
	}
	return mg, eg
}

func evaluateOutposts(b *board.Board) ScorePair {
	var total ScorePair
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		ownPawns := b.Pieces[c][board.Pawn]
		enemyPawns := b.Pieces[c.Other()][board.Pawn]

		var outpostRanks board.Bitboard
		if c == board.White {
			outpostRanks = board.ChessRankMask[3] | board.ChessRankMask[4] | board.ChessRankMask[5]
		} else {
			outpostRanks = board.ChessRankMask[2] | board.ChessRankMask[3] | board.ChessRankMask[4]
		}

		outpostSafe := func(sq board.Square) bool {
			file := sq.File()
			var attackerFiles board.Bitboard
			if file > 0 {
				attackerFiles |= board.FileMask[file-1]
			}
			if file < 7 {
				attackerFiles |= board.FileMask[file+1]
			}
			var potential board.Bitboard
			if c == board.White {
				for r := 0; r <= sq.ChessRank(); r++ {
					potential |= board.ChessRankMask[r]
				}
			} else {
				for r := sq.ChessRank(); r < 8; r++ {
					potential |= board.ChessRankMask[r]
				}
			}
			return enemyPawns&attackerFiles&potential == 0
		}

		for knights := b.Pieces[c][board.Knight] & outpostRanks; knights != 0; {
			sq := knights.PopLSB()
			if outpostSafe(sq) {
				total = total.add(MakeScore(int16(sign*knightOutpostMg), int16(sign*knightOutpostEg)))
				if board.PawnAttacks(sq, c.Other())&ownPawns != 0 {
					total = total.add(MakeScore(
						int16(sign*knightOutpostProtectedMg), int16(sign*knightOutpostProtectedEg)))
				}
			}
		}
		for bishops := b.Pieces[c][board.Bishop] & outpostRanks; bishops != 0; {
			sq := bishops.PopLSB()
			if outpostSafe(sq) {
				total = total.add(MakeScore(int16(sign*bishopOutpostMg), int16(sign*bishopOutpostEg)))
			}
		}
	}
	return total
}

func pawnAttacksBB(b *board.Board, c board.Color) board.Bitboard {
	pawns := b.Pieces[c][board.Pawn]
	if c == board.White {
		return pawns.NorthEast() | pawns.NorthWest()
	}
	return pawns.SouthEast() | pawns.SouthWest()
}

func knightAttacksBB(b *board.Board, c board.Color) board.Bitboard {
	var attacks board.Bitboard
	for knights := b.Pieces[c][board.Knight]; knights != 0; {
		attacks |= board.KnightAttacks(knights.PopLSB())
	}
	return attacks
}

func bishopAttacksBB(b *board.Board, c board.Color, occ board.Bitboard) board.Bitboard {
	var attacks board.Bitboard
	for bishops := b.Pieces[c][board.Bishop]; bishops != 0; {
		attacks |= board.BishopAttacks(bishops.PopLSB(), occ)
	}
	return attacks
}

func rookAttacksBB(b *board.Board, c board.Color, occ board.Bitboard) board.Bitboard {
	var attacks board.Bitboard
	for rooks := b.Pieces[c][board.Rook]; rooks != 0; {
		attacks |= board.RookAttacks(rooks.PopLSB(), occ)
	}
	return attacks
}

func queenAttacksBB(b *board.Board, c board.Color, occ board.Bitboard) board.Bitboard {
	var attacks board.Bitboard
	for queens := b.Pieces[c][board.Queen]; queens != 0; {
		attacks |= board.QueenAttacks(queens.PopLSB(), occ)
	}
	return attacks
}

func evaluateThreats(b *board.Board) ScorePair {
	var total ScorePair
	occupied := b.AllOccupied

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		enemy := c.Other()

		ourPawnAtt := pawnAttacksBB(b, c)
		ourAttacks := ourPawnAtt | knightAttacksBB(b, c) | bishopAttacksBB(b, c, occupied) |
			rookAttacksBB(b, c, occupied) | queenAttacksBB(b, c, occupied) | board.KingAttacks(b.KingSquare[c])

		enemyAttacks := pawnAttacksBB(b, enemy) | knightAttacksBB(b, enemy) | bishopAttacksBB(b, enemy, occupied) |
			rookAttacksBB(b, enemy, occupied) | queenAttacksBB(b, enemy, occupied) | board.KingAttacks(b.KingSquare[enemy])

		ourPieces := b.Occupied[c] &^ board.SquareBB(b.KingSquare[c])

		hanging := (ourPieces & enemyAttacks &^ ourAttacks).PopCount()
		total = total.add(MakeScore(
			int16(sign*hanging*hangingPiecePenalty), int16(sign*hanging*(hangingPiecePenalty*3/2))))

		loose := (ourPieces &^ ourAttacks).PopCount()
		total = total.add(MakeScore(int16(sign*loose*loosePiecePenalty), 0))

		enemyPieces := b.Occupied[enemy] &^ board.SquareBB(b.KingSquare[enemy])
		pawnThreats := (enemyPieces & ourPawnAtt &^ b.Pieces[enemy][board.Pawn]).PopCount()
		total = total.add(MakeScore(
			int16(sign*pawnThreats*threatByPawnBonus), int16(sign*pawnThreats*threatByPawnBonus)))

		minorAttacks := knightAttacksBB(b, c) | bishopAttacksBB(b, c, occupied)
		majorPieces := b.Pieces[enemy][board.Rook] | b.Pieces[enemy][board.Queen]
		minorThreats := (majorPieces & minorAttacks).PopCount()
		total = total.add(MakeScore(
			int16(sign*minorThreats*threatByMinorBonus), int16(sign*minorThreats*threatByMinorBonus)))
	}
	return total
}

func evaluateSpace(b *board.Board) int {
	nonPawn := func(c board.Color) int {
		return b.Pieces[c][board.Knight].PopCount() + b.Pieces[c][board.Bishop].PopCount() +
			b.Pieces[c][board.Rook].PopCount() + b.Pieces[c][board.Queen].PopCount()
	}
	whiteCount, blackCount := nonPawn(board.White), nonPawn(board.Black)
	if whiteCount < spaceMinPieces && blackCount < spaceMinPieces {
		return 0
	}

	var score int
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		pieceCount := whiteCount
		if c == board.Black {
			pieceCount = blackCount
		}
		if pieceCount < spaceMinPieces {
			continue
		}

		enemy := c.Other()
		ownPawns := b.Pieces[c][board.Pawn]
		enemyPawns := b.Pieces[enemy][board.Pawn]

		var zone board.Bitboard
		if c == board.White {
			zone = whiteSpaceZone
		} else {
			zone = blackSpaceZone
		}

		var pawnControl board.Bitboard
		if c == board.White {
			pawnControl = ownPawns.NorthEast() | ownPawns.NorthWest()
		} else {
			pawnControl = ownPawns.SouthEast() | ownPawns.SouthWest()
		}

		var enemyPawnAttacks board.Bitboard
		if c == board.White {
			enemyPawnAttacks = enemyPawns.SouthEast() | enemyPawns.SouthWest()
		} else {
			enemyPawnAttacks = enemyPawns.NorthEast() | enemyPawns.NorthWest()
		}

		safe := zone &^ enemyPawnAttacks

		var behind board.Bitboard
		if c == board.White {
			behind = ownPawns.SouthFill()
		} else {
			behind = ownPawns.NorthFill()
		}

		controlled := (pawnControl | behind) & safe
		spaceCount := controlled.PopCount()
		behindCount := (controlled & behind).PopCount()

		score += sign * (spaceCount*spaceSquareBonus + behindCount*spaceBehindPawnBonus)
	}
	return score
}

func evaluateTrappedPieces(b *board.Board) ScorePair {
	var total ScorePair
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		enemy := c.Other()
		ownPawns := b.Pieces[c][board.Pawn]
		enemyPawns := b.Pieces[enemy][board.Pawn]

		for bishops := b.Pieces[c][board.Bishop]; bishops != 0; {
			sq := bishops.PopLSB()

			colorSquares := darkSquares
			if lightSquares.IsSet(sq) {
				colorSquares = lightSquares
			}
			blockingPawns := (ownPawns & colorSquares).PopCount()
			if blockingPawns >= 3 {
				total = total.add(MakeScore(
					int16(sign*badBishopPenaltyMg*blockingPawns), int16(sign*badBishopPenaltyEg*blockingPawns)))
			}

			trapped := func(corner board.Square, p1, p2 board.Square) {
				if sq == corner && enemyPawns.IsSet(p1) && enemyPawns.IsSet(p2) {
					total = total.add(MakeScore(
						int16(sign*trappedBishopPenaltyMg), int16(sign*trappedBishopPenaltyEg)))
				}
			}
			if c == board.White {
				trapped(board.A6, board.B7, board.B5)
				trapped(board.H6, board.G7, board.G5)
			} else {
				trapped(board.A3, board.B2, board.B4)
				trapped(board.H3, board.G2, board.G4)
			}
		}

		kingSq := b.KingSquare[c]
		rooks := b.Pieces[c][board.Rook]
		trappedRook := func(kingSquares, rookSquares board.Bitboard, right board.CastlingRights) {
			if board.SquareBB(kingSq)&kingSquares != 0 && rooks&rookSquares != 0 && b.CastlingRights&right == 0 {
				total = total.add(MakeScore(
					int16(sign*trappedRookPenaltyMg), int16(sign*trappedRookPenaltyEg)))
			}
		}
		if c == board.White {
			trappedRook(board.SquareBB(board.F1)|board.SquareBB(board.G1),
				board.SquareBB(board.G1)|board.SquareBB(board.H1), board.WhiteKingSideCastle)
			trappedRook(board.SquareBB(board.B1)|board.SquareBB(board.C1)|board.SquareBB(board.D1),
				board.SquareBB(board.A1)|board.SquareBB(board.B1), board.WhiteQueenSideCastle)
		} else {
			trappedRook(board.SquareBB(board.F8)|board.SquareBB(board.G8),
				board.SquareBB(board.G8)|board.SquareBB(board.H8), board.BlackKingSideCastle)
			trappedRook(board.SquareBB(board.B8)|board.SquareBB(board.C8)|board.SquareBB(board.D8),
				board.SquareBB(board.A8)|board.SquareBB(board.B8), board.BlackQueenSideCastle)
		}

		for knights := b.Pieces[c][board.Knight] & rimSquares; knights != 0; {
			sq := knights.PopLSB()
			if cornerSquares.IsSet(sq) {
				total = total.add(MakeScore(
					int16(sign*knightCornerPenaltyMg), int16(sign*knightCornerPenaltyEg)))
				continue
			}
			mobility := (board.KnightAttacks(sq) &^ b.Occupied[c]).PopCount()
			if mobility <= 3 {
				total = total.add(MakeScore(
					int16(sign*knightRimPenaltyMg), int16(sign*knightRimPenaltyEg)))
			}
		}
	}
	return total
}

func evaluatePieceCoordination(b *board.Board) ScorePair {
	var total ScorePair
	occupied := b.AllOccupied

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		enemy := c.Other()
		rooks := b.Pieces[c][board.Rook]

		rank7th, enemyPawnRank := board.ChessRankMask[6], board.ChessRankMask[1]
		if c == board.Black {
			rank7th, enemyPawnRank = board.ChessRankMask[1], board.ChessRankMask[6]
		}

		rooksOn7th := (rooks & rank7th).PopCount()
		if rooksOn7th > 0 {
			total = total.add(MakeScore(int16(sign*rookOn7thMg*rooksOn7th), int16(sign*rookOn7thEg*rooksOn7th)))
			if b.Pieces[enemy][board.Pawn]&enemyPawnRank != 0 {
				total = total.add(MakeScore(
					int16(sign*rookOn7thWithPawnsMg*rooksOn7th), int16(sign*rookOn7thWithPawnsEg*rooksOn7th)))
			}
			if rooksOn7th >= 2 {
				total = total.add(MakeScore(int16(sign*doubleRooksOn7thMg), int16(sign*doubleRooksOn7thEg)))
			}
		}

		if rooks.PopCount() >= 2 {
			var squares [2]board.Square
			idx := 0
			for temp := rooks; temp != 0 && idx < 2; idx++ {
				squares[idx] = temp.PopLSB()
			}
			if idx == 2 {
				sq1, sq2 := squares[0], squares[1]
				if board.RookAttacks(sq1, occupied).IsSet(sq2) {
					total = total.add(MakeScore(int16(sign*connectedRooksMg), int16(sign*connectedRooksEg)))
					if sq1.File() == sq2.File() {
						total = total.add(MakeScore(int16(sign*doubledRooksOnFileMg), int16(sign*doubledRooksOnFileEg)))
					}
				}
			}
		}
	}
	return total
}
